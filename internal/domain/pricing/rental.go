package pricing

import (
	"time"

	"rentalhub/internal/errors"

	"github.com/shopspring/decimal"
)

// RentalUnit is the billing granularity of an item's base price.
type RentalUnit string

const (
	RentalUnitHour  RentalUnit = "hour"
	RentalUnitDay   RentalUnit = "day"
	RentalUnitWeek  RentalUnit = "week"
	RentalUnitMonth RentalUnit = "month"
)

// month is billed as 30 days.
const daysPerBillingMonth = 30

const (
	// MaxUnitCount is the largest number of units one order may rent.
	MaxUnitCount = 1_000
	// MaxRentalWindow is the longest rental window one order may cover.
	MaxRentalWindow = 2 * 365 * 24 * time.Hour
)

var (
	// ErrInvalidRentalWindow is returned when end is not after start.
	ErrInvalidRentalWindow = errors.New("pricing: rental end must be after start")
	// ErrInvalidUnitCount is returned for a unit count outside [1, MaxUnitCount].
	ErrInvalidUnitCount = errors.New("pricing: unit count must be between 1 and 1000")
	// ErrRentalWindowTooLong is returned for a window longer than MaxRentalWindow.
	ErrRentalWindowTooLong = errors.New("pricing: rental window must not exceed two years")
	// ErrUnknownRentalUnit is returned for an unsupported price unit.
	ErrUnknownRentalUnit = errors.New("pricing: unknown rental unit")
)

// Length returns the wall-clock length of one billing unit.
func (u RentalUnit) Length() (time.Duration, bool) {
	switch u {
	case RentalUnitHour:
		return time.Hour, true
	case RentalUnitDay:
		return 24 * time.Hour, true
	case RentalUnitWeek:
		return 7 * 24 * time.Hour, true
	case RentalUnitMonth:
		return daysPerBillingMonth * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// IsValid checks if the RentalUnit is a known value.
func (u RentalUnit) IsValid() bool {
	_, ok := u.Length()

	return ok
}

// RentalQuote is the priced rental window before fees and discounts.
type RentalQuote struct {
	Duration      int        `json:"rental_duration"`
	Unit          RentalUnit `json:"rental_unit"`
	RentalAmount  int64      `json:"rental_amount"`
	DepositAmount int64      `json:"deposit_amount"`
}

// QuoteRental bills every started unit of the window: the duration is the
// window length divided by the unit length, rounded up, and at least one.
func QuoteRental(basePrice, depositPerUnit int64, unit RentalUnit, unitCount int, startAt, endAt time.Time) (RentalQuote, error) {
	if basePrice < 0 || depositPerUnit < 0 {
		return RentalQuote{}, ErrNegativeAmount
	}
	if unitCount < 1 || unitCount > MaxUnitCount {
		return RentalQuote{}, ErrInvalidUnitCount
	}
	length, ok := unit.Length()
	if !ok {
		return RentalQuote{}, errors.Wrapf(ErrUnknownRentalUnit, "%q", unit)
	}
	if !endAt.After(startAt) {
		return RentalQuote{}, ErrInvalidRentalWindow
	}

	window := endAt.Sub(startAt)
	if window > MaxRentalWindow {
		return RentalQuote{}, ErrRentalWindowTooLong
	}
	duration := int(window / length)
	if window%length != 0 {
		duration++
	}
	if duration < 1 {
		duration = 1
	}

	units := decimal.NewFromInt(int64(unitCount))
	rental, err := toAmount(decimal.NewFromInt(basePrice).Mul(decimal.NewFromInt(int64(duration))).Mul(units))
	if err != nil {
		return RentalQuote{}, errors.Wrap(err, "rental amount")
	}
	deposit, err := toAmount(decimal.NewFromInt(depositPerUnit).Mul(units))
	if err != nil {
		return RentalQuote{}, errors.Wrap(err, "deposit amount")
	}

	return RentalQuote{
		Duration:      duration,
		Unit:          unit,
		RentalAmount:  rental,
		DepositAmount: deposit,
	}, nil
}
