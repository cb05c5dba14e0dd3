package pricing

import (
	"testing"
	"time"

	"rentalhub/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRental(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		unit      RentalUnit
		units     int
		end       time.Time
		duration  int
		rental    int64
		depositIn int64
		deposit   int64
	}{
		{"exact days", RentalUnitDay, 1, start.Add(72 * time.Hour), 3, 30_000, 5_000, 5_000},
		{"partial day rounds up", RentalUnitDay, 1, start.Add(49 * time.Hour), 3, 30_000, 0, 0},
		{"several units", RentalUnitDay, 2, start.Add(24 * time.Hour), 1, 20_000, 5_000, 10_000},
		{"hourly", RentalUnitHour, 1, start.Add(90 * time.Minute), 2, 20_000, 0, 0},
		{"weekly", RentalUnitWeek, 1, start.Add(8 * 24 * time.Hour), 2, 20_000, 0, 0},
		{"monthly is thirty days", RentalUnitMonth, 1, start.Add(30 * 24 * time.Hour), 1, 10_000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteRental(10_000, tt.depositIn, tt.unit, tt.units, start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.duration, got.Duration)
			assert.Equal(t, tt.unit, got.Unit)
			assert.Equal(t, tt.rental, got.RentalAmount)
			assert.Equal(t, tt.deposit, got.DepositAmount)
		})
	}
}

func TestQuoteRental_Errors(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := QuoteRental(100, 0, RentalUnitDay, 1, start, start)
	assert.True(t, errors.Is(err, ErrInvalidRentalWindow))

	_, err = QuoteRental(100, 0, RentalUnitDay, 0, start, start.Add(time.Hour))
	assert.True(t, errors.Is(err, ErrInvalidUnitCount))

	_, err = QuoteRental(100, 0, "fortnight", 1, start, start.Add(time.Hour))
	assert.True(t, errors.Is(err, ErrUnknownRentalUnit))

	_, err = QuoteRental(-1, 0, RentalUnitDay, 1, start, start.Add(time.Hour))
	assert.True(t, errors.Is(err, ErrNegativeAmount))

	_, err = QuoteRental(100, 0, RentalUnitDay, MaxUnitCount+1, start, start.Add(time.Hour))
	assert.True(t, errors.Is(err, ErrInvalidUnitCount))

	_, err = QuoteRental(100, 0, RentalUnitDay, 1, start, start.Add(MaxRentalWindow+time.Nanosecond))
	assert.True(t, errors.Is(err, ErrRentalWindowTooLong))
}

func TestQuoteRental_RejectsOverflow(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// 2^62 per day for two days does not fit in int64.
	_, err := QuoteRental(1<<62, 0, RentalUnitDay, 1, start, start.Add(48*time.Hour))
	assert.True(t, errors.Is(err, ErrAmountOverflow))

	_, err = QuoteRental(1, 1<<62, RentalUnitDay, 2, start, start.Add(time.Hour))
	assert.True(t, errors.Is(err, ErrAmountOverflow))

	got, err := QuoteRental(100_000, 50_000, RentalUnitDay, MaxUnitCount, start, start.Add(MaxRentalWindow))
	require.NoError(t, err)
	assert.Equal(t, int64(100_000*730*MaxUnitCount), got.RentalAmount)
	assert.Equal(t, int64(50_000*MaxUnitCount), got.DepositAmount)
}
