// Package shared holds the line-item arithmetic used by quotations, invoices
// and the documents derived from them. All money math goes through
// shopspring/decimal and is rounded half away from zero to 2 decimal places
// per derived field, at the line level, before summation.
package shared

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Errors reported while normalizing line input.
var (
	ErrQuantityNotPositive = errors.New("quantity must be greater than zero")
	ErrPriceNegative       = errors.New("price must not be negative")
	ErrDiscountNegative    = errors.New("discount must not be negative")
	ErrDiscountExceedsUnit = errors.New("discount must not exceed unit price")
)

// LineInput is the canonical line record shared by the create and edit flows.
// Discount is per unit of quantity.
type LineInput struct {
	ItemID      int64   `json:"item_id"`
	ItemName    string  `json:"item_name"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	CGST        float64 `json:"cgst"`
	SGST        float64 `json:"sgst"`
	IGST        float64 `json:"igst"`
}

// Line is a computed document line. Derived fields are recomputable from the
// input fields alone; recomputation from equal inputs is deterministic.
type Line struct {
	ItemID      int64   `json:"item_id"`
	ItemName    string  `json:"item_name"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	CGST        float64 `json:"cgst"`
	SGST        float64 `json:"sgst"`
	IGST        float64 `json:"igst"`
	TaxRate     float64 `json:"tax_rate"`
	Amount      float64 `json:"amount"`
	TaxAmount   float64 `json:"tax_amount"`
	Total       float64 `json:"total"`
}

// ComputeLine derives amount, tax and total for one line:
//
//	taxRate   = cgst + sgst + igst
//	amount    = (price - discount) * quantity
//	taxAmount = amount * taxRate / 100
//	total     = amount + taxAmount
func ComputeLine(in LineInput) (Line, error) {
	if in.Quantity <= 0 {
		return Line{}, ErrQuantityNotPositive
	}
	if in.Price < 0 {
		return Line{}, ErrPriceNegative
	}
	if in.Discount < 0 {
		return Line{}, ErrDiscountNegative
	}
	if in.Discount > in.Price {
		return Line{}, ErrDiscountExceedsUnit
	}

	price := decimal.NewFromFloat(in.Price)
	discount := decimal.NewFromFloat(in.Discount)
	quantity := decimal.NewFromFloat(in.Quantity)
	rate := decimal.NewFromFloat(in.CGST).
		Add(decimal.NewFromFloat(in.SGST)).
		Add(decimal.NewFromFloat(in.IGST))

	amount := price.Sub(discount).Mul(quantity).Round(2)
	taxAmount := amount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	total := amount.Add(taxAmount).Round(2)

	return Line{
		ItemID:      in.ItemID,
		ItemName:    in.ItemName,
		Description: in.Description,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Discount:    in.Discount,
		CGST:        in.CGST,
		SGST:        in.SGST,
		IGST:        in.IGST,
		TaxRate:     rate.InexactFloat64(),
		Amount:      amount.InexactFloat64(),
		TaxAmount:   taxAmount.InexactFloat64(),
		Total:       total.InexactFloat64(),
	}, nil
}

// ComputeLines computes every line and the document grand total.
func ComputeLines(inputs []LineInput) ([]Line, float64, error) {
	lines := make([]Line, 0, len(inputs))
	grand := decimal.Zero
	for _, in := range inputs {
		line, err := ComputeLine(in)
		if err != nil {
			return nil, 0, err
		}
		lines = append(lines, line)
		grand = grand.Add(decimal.NewFromFloat(line.Total))
	}
	return lines, grand.Round(2).InexactFloat64(), nil
}

// Balance computes an outstanding balance from a grand total and the amount
// received so far.
func Balance(grandTotal, paid float64) float64 {
	return decimal.NewFromFloat(grandTotal).
		Sub(decimal.NewFromFloat(paid)).
		Round(2).
		InexactFloat64()
}

// SumAmounts adds a series of money amounts with decimal precision.
func SumAmounts(amounts []float64) float64 {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(decimal.NewFromFloat(a))
	}
	return sum.Round(2).InexactFloat64()
}
