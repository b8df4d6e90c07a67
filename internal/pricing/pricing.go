// Package pricing implements the discount and total math for a cart
// of line items. It is pure calculation: no I/O, no storage.
//
// Money values are two-decimal amounts. Every multiplication that
// produces a money value is rounded immediately (round half away from
// zero); unrounded intermediates are never chained, so the persisted
// aggregates always satisfy
//
//	total == subtotal - itemDiscount - billDiscount
//
// to the cent.
package pricing

import (
	"fmt"
	"math"

	"github.com/rkstores/wholesale-api/pkg/apperror"
)

// CartItem is one pre-commit cart entry. Rate is the base unit price
// actually charged, which may override the product's catalog sell
// price. DiscountPercent is a percentage in [0, 100]; zero means no
// item discount.
type CartItem struct {
	ProductID       uint
	Name            string
	Rate            float64
	Quantity        int
	DiscountPercent float64
}

// Line is the fully derived form of a cart entry.
type Line struct {
	ProductID       uint
	Name            string
	Quantity        int
	Rate            float64
	FinalRate       float64
	DiscountPercent float64
	DiscountAmount  float64
	Total           float64
}

// Totals is the derived bill-level aggregate for a cart.
type Totals struct {
	Lines               []Line
	Subtotal            float64
	ItemDiscountAmount  float64
	BillDiscountPercent float64
	BillDiscountAmount  float64
	TotalAmount         float64
}

// Round2 rounds a money value to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeLine derives the final rate, discount amount, and total for a
// single cart entry.
func ComputeLine(item CartItem) Line {
	finalRate := item.Rate
	if item.DiscountPercent > 0 {
		finalRate = Round2(item.Rate * (1 - item.DiscountPercent/100))
	}
	qty := float64(item.Quantity)
	return Line{
		ProductID:       item.ProductID,
		Name:            item.Name,
		Quantity:        item.Quantity,
		Rate:            item.Rate,
		FinalRate:       finalRate,
		DiscountPercent: item.DiscountPercent,
		DiscountAmount:  Round2((item.Rate - finalRate) * qty),
		Total:           Round2(finalRate * qty),
	}
}

// ComputeTotals derives all bill aggregates for a cart. The cart must
// be non-empty, every quantity positive, every rate non-negative, and
// every discount percentage within [0, 100]; out-of-range input is
// rejected rather than clamped so operator error surfaces immediately.
func ComputeTotals(items []CartItem, billDiscountPercent float64) (*Totals, error) {
	if len(items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "cart must contain at least one item"},
		})
	}
	if billDiscountPercent < 0 || billDiscountPercent > 100 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "bill_discount_percent", Message: "discount must be between 0 and 100"},
		})
	}
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: fmt.Sprintf("items[%d].quantity", i), Message: "quantity must be greater than zero"},
			})
		}
		if item.Rate < 0 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: fmt.Sprintf("items[%d].rate", i), Message: "rate must not be negative"},
			})
		}
		if item.DiscountPercent < 0 || item.DiscountPercent > 100 {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: fmt.Sprintf("items[%d].discount_percent", i), Message: "discount must be between 0 and 100"},
			})
		}
	}

	t := &Totals{
		Lines:               make([]Line, 0, len(items)),
		BillDiscountPercent: billDiscountPercent,
	}

	var subtotal, itemDiscount float64
	for _, item := range items {
		line := ComputeLine(item)
		t.Lines = append(t.Lines, line)
		// Subtotal is computed from base rates, before any discount.
		subtotal += Round2(item.Rate * float64(item.Quantity))
		itemDiscount += line.DiscountAmount
	}
	t.Subtotal = Round2(subtotal)
	t.ItemDiscountAmount = Round2(itemDiscount)

	// The bill discount composes sequentially on the amount remaining
	// after item discounts, not on the raw subtotal.
	afterItemDiscount := t.Subtotal - t.ItemDiscountAmount
	if billDiscountPercent > 0 {
		t.BillDiscountAmount = Round2(afterItemDiscount * billDiscountPercent / 100)
	}
	t.TotalAmount = Round2(t.Subtotal - t.ItemDiscountAmount - t.BillDiscountAmount)

	return t, nil
}
