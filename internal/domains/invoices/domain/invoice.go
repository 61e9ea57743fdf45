package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits used when presenting amounts.
const MoneyScale = 2

var (
	ErrNoLineItems     = errors.New("invoice must contain at least one line item")
	ErrInvalidQuantity = errors.New("line item quantity must be greater than zero")
	ErrTotalMismatch   = errors.New("invoice total does not equal the sum of line subtotals")
)

// ClientSnapshot is the client data captured when the invoice was issued.
type ClientSnapshot struct {
	ID                   int64
	Name                 string
	Email                string
	IdentificationNumber string
}

// LineItem is one product line. UnitPrice is the product price at invoice time.
type LineItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// NewLineItem prices a line as unitPrice × quantity without intermediate rounding.
func NewLineItem(productID int64, productName string, quantity int64, unitPrice decimal.Decimal) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	return LineItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// Invoice is an immutable sales document. Total always equals the sum of line subtotals.
type Invoice struct {
	ID        int64
	CreatedAt time.Time
	Client    ClientSnapshot
	Items     []LineItem
	Total     decimal.Decimal
}

// NewInvoice assembles an unsaved invoice and computes its total.
func NewInvoice(client ClientSnapshot, items []LineItem) (*Invoice, error) {
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}
	invoice := &Invoice{
		Client: client,
		Items:  append([]LineItem(nil), items...),
		Total:  SumSubtotals(items),
	}
	return invoice, nil
}

// Validate checks the invoice's structural invariants.
func (i *Invoice) Validate() error {
	if len(i.Items) == 0 {
		return ErrNoLineItems
	}
	for idx, item := range i.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("line %d: %w", idx, ErrInvalidQuantity)
		}
	}
	if !i.Total.Equal(SumSubtotals(i.Items)) {
		return ErrTotalMismatch
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias stored line items.
func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	clone := *i
	clone.Items = append([]LineItem(nil), i.Items...)
	return &clone
}

// SumSubtotals adds the subtotals of the given lines.
func SumSubtotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}
