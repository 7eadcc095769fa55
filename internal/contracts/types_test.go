package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "forward one week",
			a:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
			want: 7,
		},
		{
			name: "past expiry is negative",
			a:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			want: -4,
		},
		{
			name: "time of day ignored",
			a:    time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC),
			b:    time.Date(2026, 3, 11, 0, 15, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "across month boundary",
			a:    time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestContractSnapshot_DaysUntilExpiry(t *testing.T) {
	snap := ContractSnapshot{
		DataDate:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate: time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 30, snap.DaysUntilExpiry())

	expired := ContractSnapshot{
		DataDate:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate: time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC),
	}
	assert.Negative(t, expired.DaysUntilExpiry())
}

func TestOptionType_Valid(t *testing.T) {
	assert.True(t, Call.Valid())
	assert.True(t, Put.Valid())
	assert.False(t, OptionType("straddle").Valid())
	assert.False(t, OptionType("").Valid())
}
