package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	CreateFunc              func(ctx context.Context, wallet *domain.Wallet) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Wallet, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error)
	GetByIDsForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error)
	UpdateBalanceFunc       func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateDecimalPlacesFunc func(ctx context.Context, id string, decimalPlaces int32, updatedAt time.Time) error
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.Wallet, error)
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, wallet)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
	return nil
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[id]; ok {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Wallet, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockWalletRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Wallet, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, id := range ids {
		if w, ok := m.wallets[id]; ok {
			wallets = append(wallets, w)
		}
	}
	return wallets, nil
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[id]; ok {
		w.Balance = balance
		w.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockWalletRepository) UpdateDecimalPlaces(ctx context.Context, id string, decimalPlaces int32, updatedAt time.Time) error {
	if m.UpdateDecimalPlacesFunc != nil {
		return m.UpdateDecimalPlacesFunc(ctx, id, decimalPlaces, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[id]; ok {
		w.DecimalPlaces = decimalPlaces
		w.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockWalletRepository) List(ctx context.Context, limit, offset int) ([]*domain.Wallet, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var wallets []*domain.Wallet
	for _, w := range m.wallets {
		wallets = append(wallets, w)
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].ID < wallets[j].ID })
	return wallets, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	order        []string

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) (*domain.Transaction, bool, error)
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateFunc       func(ctx context.Context, txn *domain.Transaction) error
	ListByWalletFunc func(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error)
	SumConfirmedFunc func(ctx context.Context, tx usecase.Transaction, walletID string) (decimal.Decimal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) (*domain.Transaction, bool, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.transactions[txn.ID]; ok {
		return existing, false, nil
	}
	m.transactions[txn.ID] = txn
	m.order = append(m.order, txn.ID)
	return txn, true, nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[txn.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, id := range m.order {
		if m.transactions[id].WalletID == walletID {
			txns = append(txns, m.transactions[id])
		}
	}
	if offset >= len(txns) {
		return nil, nil
	}
	txns = txns[offset:]
	if limit > 0 && limit < len(txns) {
		txns = txns[:limit]
	}
	return txns, nil
}

func (m *MockTransactionRepository) SumConfirmed(ctx context.Context, tx usecase.Transaction, walletID string) (decimal.Decimal, error) {
	if m.SumConfirmedFunc != nil {
		return m.SumConfirmedFunc(ctx, tx, walletID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, txn := range m.transactions {
		if txn.WalletID == walletID && txn.Confirmed {
			sum = sum.Add(txn.Amount)
		}
	}
	return sum, nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) (*domain.Transfer, bool, error)
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Transfer, error)
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	ListByWalletFunc func(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.Transfer),
	}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) (*domain.Transfer, bool, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.transfers[transfer.ID]; ok {
		return existing, false, nil
	}
	m.transfers[transfer.ID] = transfer
	return transfer, true, nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if transfer, ok := m.transfers[id]; ok {
		return transfer, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transfers[transfer.ID]; !ok {
		return domain.ErrTransferNotFound
	}
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) ListByWallet(ctx context.Context, walletID string, limit, offset int) ([]*domain.Transfer, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.Transfer
	for _, t := range m.transfers {
		if t.FromWalletID == walletID || t.ToWalletID == walletID {
			transfers = append(transfers, t)
		}
	}
	sort.Slice(transfers, func(i, j int) bool { return transfers[i].ID < transfers[j].ID })
	return transfers, nil
}

// MockTransaction is a no-op database transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.RolledBack = true
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		entries: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		entries: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[key]; ok {
		return true, existing, nil
	}
	if response == nil {
		response = []byte("processing")
	}
	m.entries[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = response
	return nil
}
