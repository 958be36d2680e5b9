package domain

import "errors"

var (
	// Amount errors
	ErrAmountInvalid = errors.New("amount is invalid")

	// Wallet errors
	ErrBalanceIsEmpty = errors.New("balance is insufficient for withdrawal")
	ErrWalletNotFound = errors.New("wallet not found")

	// Ledger errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransferNotFound    = errors.New("transfer not found")

	// ErrLockContention is returned when a wallet row lock could not be
	// acquired within the bounded wait. The operation may be retried.
	ErrLockContention = errors.New("wallet is locked by a concurrent operation")
)
