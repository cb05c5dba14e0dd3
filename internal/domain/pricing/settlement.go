// Package pricing holds the pure money arithmetic of an order: turning an item
// price and a rental window into a rental amount, and turning that amount plus
// deposit, service-fee rate and discounts into the frozen settlement.
//
// Nothing here touches storage. All amounts are int64 minor currency units;
// rates and percent values are decimals and rounding happens exactly once per
// derived amount, half away from zero.
package pricing

import (
	"math"

	"rentalhub/internal/errors"

	"github.com/shopspring/decimal"
)

// DiscountType describes the value shape of a discount.
type DiscountType string

const (
	// DiscountTypePercent takes Value percent of the base amount, optionally capped.
	DiscountTypePercent DiscountType = "percent"
	// DiscountTypeFixed takes Value minor units off the order.
	DiscountTypeFixed DiscountType = "fixed"
)

// IsValid checks if the DiscountType is a known value.
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercent || t == DiscountTypeFixed
}

var (
	// ErrNegativeAmount is returned when an input amount is below zero.
	ErrNegativeAmount = errors.New("pricing: amount must not be negative")
	// ErrInvalidRate is returned for a negative service-fee rate.
	ErrInvalidRate = errors.New("pricing: service fee rate must not be negative")
	// ErrInvalidDiscount is returned for malformed discount terms.
	ErrInvalidDiscount = errors.New("pricing: invalid discount terms")
	// ErrAmountOverflow is returned when an amount does not fit in int64 minor units.
	ErrAmountOverflow = errors.New("pricing: amount out of range")
)

var (
	hundred   = decimal.NewFromInt(100)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// toAmount converts an exact decimal amount to minor units, rejecting values int64 cannot hold.
func toAmount(d decimal.Decimal) (int64, error) {
	if d.GreaterThan(maxAmount) {
		return 0, ErrAmountOverflow
	}

	return d.IntPart(), nil
}

// DiscountTerms is the value part of a discount, copied by value into settlement.
type DiscountTerms struct {
	Code      string
	Type      DiscountType
	Value     decimal.Decimal
	MaxAmount *int64
}

// Validate checks that the terms can be evaluated.
func (d DiscountTerms) Validate() error {
	if !d.Type.IsValid() {
		return errors.Wrapf(ErrInvalidDiscount, "unknown type %q", d.Type)
	}
	if d.Value.IsNegative() {
		return errors.Wrap(ErrInvalidDiscount, "value must not be negative")
	}
	if d.Type == DiscountTypePercent && d.Value.GreaterThan(hundred) {
		return errors.Wrap(ErrInvalidDiscount, "percent value must not exceed 100")
	}
	if d.MaxAmount != nil && *d.MaxAmount < 0 {
		return errors.Wrap(ErrInvalidDiscount, "max amount must not be negative")
	}

	return nil
}

// DiscountAmount computes what the discount takes off base.
// Percent: round(base * value / 100), capped by MaxAmount when set.
// Fixed: round(value).
func DiscountAmount(terms DiscountTerms, base int64) int64 {
	var amount decimal.Decimal
	switch terms.Type {
	case DiscountTypePercent:
		amount = decimal.NewFromInt(base).Mul(terms.Value).Div(hundred).Round(0)
		if terms.MaxAmount != nil {
			amount = decimal.Min(amount, decimal.NewFromInt(*terms.MaxAmount))
		}
	case DiscountTypeFixed:
		amount = terms.Value.Round(0)
	}

	return decimal.Min(decimal.Max(amount, decimal.Zero), maxAmount).IntPart()
}

// ServiceFee computes round(base * ratePercent / 100).
func ServiceFee(ratePercent decimal.Decimal, base int64) int64 {
	return decimal.NewFromInt(base).Mul(ratePercent).Div(hundred).Round(0).IntPart()
}

// SettlementInput is everything the settlement depends on. Callers pass the
// service-fee rate and the discount terms that were in force at checkout.
type SettlementInput struct {
	RentalAmount          int64
	DepositAmount         int64
	ServiceFeeRatePercent decimal.Decimal
	PublicDiscount        *DiscountTerms
	SpecialDiscount       *DiscountTerms
}

// Settlement is the immutable financial breakdown frozen onto an order.
type Settlement struct {
	TotalAmount           int64 `json:"total_amount"`
	DepositAmount         int64 `json:"deposit_amount"`
	ServiceFee            int64 `json:"service_fee"`
	PublicDiscountAmount  int64 `json:"public_discount_amount"`
	SpecialDiscountAmount int64 `json:"special_discount_amount"`
	TotalDiscount         int64 `json:"total_discount"`
	FinalAmount           int64 `json:"final_amount"`
}

// Settle produces the settlement for one order. It is deterministic in its
// input. Both discounts are evaluated against the rental amount independently
// and summed; the payable amount never drops below zero.
func Settle(in SettlementInput) (Settlement, error) {
	if in.RentalAmount < 0 || in.DepositAmount < 0 {
		return Settlement{}, ErrNegativeAmount
	}
	if in.ServiceFeeRatePercent.IsNegative() {
		return Settlement{}, ErrInvalidRate
	}

	fee, err := toAmount(decimal.NewFromInt(in.RentalAmount).Mul(in.ServiceFeeRatePercent).Div(hundred).Round(0))
	if err != nil {
		return Settlement{}, errors.Wrap(err, "service fee")
	}
	out := Settlement{
		TotalAmount:   in.RentalAmount,
		DepositAmount: in.DepositAmount,
		ServiceFee:    fee,
	}

	if in.PublicDiscount != nil {
		if err := in.PublicDiscount.Validate(); err != nil {
			return Settlement{}, err
		}
		out.PublicDiscountAmount = DiscountAmount(*in.PublicDiscount, in.RentalAmount)
	}
	if in.SpecialDiscount != nil {
		if err := in.SpecialDiscount.Validate(); err != nil {
			return Settlement{}, err
		}
		out.SpecialDiscountAmount = DiscountAmount(*in.SpecialDiscount, in.RentalAmount)
	}
	out.TotalDiscount = decimal.Min(
		decimal.NewFromInt(out.PublicDiscountAmount).Add(decimal.NewFromInt(out.SpecialDiscountAmount)),
		maxAmount,
	).IntPart()

	gross := decimal.NewFromInt(out.TotalAmount).Add(decimal.NewFromInt(out.DepositAmount)).Add(decimal.NewFromInt(out.ServiceFee))
	final, err := toAmount(decimal.Max(gross.Sub(decimal.NewFromInt(out.TotalDiscount)), decimal.Zero))
	if err != nil {
		return Settlement{}, errors.Wrap(err, "final amount")
	}
	out.FinalAmount = final

	return out, nil
}
