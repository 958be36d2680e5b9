package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestWallet_CanWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		balance decimal.Decimal
		amount  decimal.Decimal
		want    bool
	}{
		{
			name:    "amount below balance",
			balance: decimal.NewFromInt(100),
			amount:  decimal.NewFromInt(50),
			want:    true,
		},
		{
			name:    "amount equal to balance",
			balance: decimal.NewFromInt(100),
			amount:  decimal.NewFromInt(100),
			want:    true,
		},
		{
			name:    "amount above balance",
			balance: decimal.NewFromInt(100),
			amount:  decimal.NewFromInt(150),
			want:    false,
		},
		{
			name:    "zero balance",
			balance: decimal.Zero,
			amount:  decimal.NewFromInt(1),
			want:    false,
		},
		{
			name:    "negative balance",
			balance: decimal.NewFromInt(-10),
			amount:  decimal.NewFromInt(1),
			want:    false,
		},
		{
			name:    "beyond int64 range",
			balance: decimal.RequireFromString("25600000256000000000000000000000001"),
			amount:  decimal.RequireFromString("25600000256000000000000000000000000"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wallet{Balance: tt.balance}

			if got := w.CanWithdraw(tt.amount); got != tt.want {
				t.Errorf("CanWithdraw(%s) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestWallet_ValidateWithdraw(t *testing.T) {
	w := &Wallet{Balance: decimal.NewFromInt(100)}

	if err := w.ValidateWithdraw(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := w.ValidateWithdraw(decimal.NewFromInt(101)); err != ErrBalanceIsEmpty {
		t.Errorf("expected ErrBalanceIsEmpty, got %v", err)
	}
}

func TestWallet_Apply(t *testing.T) {
	w := &Wallet{Balance: decimal.NewFromInt(1000000)}

	got := w.Apply(decimal.NewFromInt(-255672))
	if !got.Equal(decimal.NewFromInt(744328)) {
		t.Errorf("Apply(-255672) = %s, want 744328", got)
	}
}
