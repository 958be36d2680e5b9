package money

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name       string
		fractional string
		places     int32
		want       string
	}{
		{
			name:       "two places",
			fractional: "2556.72",
			places:     2,
			want:       "255672",
		},
		{
			name:       "round half up",
			fractional: "0.305",
			places:     2,
			want:       "31",
		},
		{
			name:       "round down below half",
			fractional: "0.304",
			places:     2,
			want:       "30",
		},
		{
			name:       "fewer digits than precision",
			fractional: "0.1",
			places:     2,
			want:       "10",
		},
		{
			name:       "zero places",
			fractional: "865",
			places:     0,
			want:       "865",
		},
		{
			name:       "ether precision",
			fractional: "545.8754855274419",
			places:     18,
			want:       "545875485527441900000",
		},
		{
			name:       "satoshi at bitcoin precision",
			fractional: "0.00000001",
			places:     32,
			want:       "1000000000000000000000000",
		},
		{
			name:       "smallest unit at bitcoin precision",
			fractional: "0." + strings.Repeat("0", 31) + "1",
			places:     32,
			want:       "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinorUnits(tt.fractional, tt.places)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ToMinorUnits(%q, %d) = %s, want %s", tt.fractional, tt.places, got, want)
			}
		})
	}
}

func TestToMinorUnits_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "1.2.3", "10,5"} {
		_, err := ToMinorUnits(input, 2)
		if !errors.Is(err, domain.ErrAmountInvalid) {
			t.Errorf("ToMinorUnits(%q): expected ErrAmountInvalid, got %v", input, err)
		}
	}
}

func TestFromMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		minor  string
		places int32
		want   string
	}{
		{
			name:   "two places",
			minor:  "744328",
			places: 2,
			want:   "7443.28",
		},
		{
			name:   "keeps trailing zeros",
			minor:  "1000",
			places: 2,
			want:   "10.00",
		},
		{
			name:   "zero places",
			minor:  "865",
			places: 0,
			want:   "865",
		},
		{
			name:   "negative amount",
			minor:  "-255672",
			places: 2,
			want:   "-2556.72",
		},
		{
			name:   "all thirty-two digits rendered",
			minor:  "25600000256000000000000000000000001",
			places: 32,
			want:   "256.00000256000000000000000000000001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromMinorUnits(decimal.RequireFromString(tt.minor), tt.places)
			if got != tt.want {
				t.Errorf("FromMinorUnits(%s, %d) = %q, want %q", tt.minor, tt.places, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// Any amount already expressed with <= places fractional digits
	// survives the round trip exactly.
	cases := []struct {
		fractional string
		places     int32
	}{
		{"0.10", 2},
		{"2556.72", 2},
		{"545.875485527441900000", 18},
		{"0.00000256000000000000000000000000", 32},
	}

	for _, tc := range cases {
		minor, err := ToMinorUnits(tc.fractional, tc.places)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := FromMinorUnits(minor, tc.places); got != tc.fractional {
			t.Errorf("round trip of %q at %d places = %q", tc.fractional, tc.places, got)
		}
	}
}

func TestRepeatedSatoshiDeposits(t *testing.T) {
	// 256 deposits of 0.00000001 at 32-place precision sum to exactly
	// 0.00000256 with no drift.
	sum := decimal.Zero
	for i := 0; i < 256; i++ {
		minor, err := ToMinorUnits("0.00000001", 32)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sum = sum.Add(minor)
	}

	want := decimal.RequireFromString("256" + strings.Repeat("0", 32-8))
	if !sum.Equal(want) {
		t.Fatalf("sum = %s, want %s", sum, want)
	}

	if got := FromMinorUnits(sum, 32); got != "0.00000256000000000000000000000000" {
		t.Errorf("rendered sum = %q", got)
	}
}
