package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors incremented by the use cases.
// HTTP-level series are recorded separately by the metrics middleware.
type Metrics struct {
	// Wallet metrics
	WalletsCreated   prometheus.Counter
	WalletOperations *prometheus.CounterVec
	BalanceRecalcs   prometheus.Counter

	// Transaction metrics
	TransactionsCreated *prometheus.CounterVec
	TransactionsEdited  prometheus.Counter

	// Transfer metrics
	TransfersCreated  *prometheus.CounterVec
	TransfersRejected prometheus.Counter
	TransferDuration  prometheus.Histogram
	TransferErrors    *prometheus.CounterVec

	// Lock contention
	LockTimeouts prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Wallet metrics
		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		WalletOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_wallet_operations_total",
				Help: "Total wallet operations by type",
			},
			[]string{"operation"},
		),
		BalanceRecalcs: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_balance_recalculations_total",
			Help: "Total number of balance recalculations",
		}),

		// Transaction metrics
		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transactions_created_total",
				Help: "Total ledger transactions created by type",
			},
			[]string{"type"},
		),
		TransactionsEdited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_transactions_edited_total",
			Help: "Total ledger transactions edited after the fact",
		}),

		// Transfer metrics
		TransfersCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transfers_created_total",
				Help: "Total number of transfers created by mode",
			},
			[]string{"mode"},
		),
		TransfersRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_transfers_rejected_total",
			Help: "Total number of transfers rejected for insufficient funds",
		}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gowallet_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		// Lock contention
		LockTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_lock_timeouts_total",
			Help: "Total row lock waits that exceeded lock_timeout",
		}),
	}
}
