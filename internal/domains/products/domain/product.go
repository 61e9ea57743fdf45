package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits a price may carry.
const PriceScale = 2

var (
	ErrEmptyName       = errors.New("product name is required")
	ErrNegativePrice   = errors.New("product price must not be negative")
	ErrPricePrecision  = errors.New("product price must have at most two decimal places")
	ErrNegativeStock   = errors.New("product stock must not be negative")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrStockUnderflow  = errors.New("quantity exceeds available stock")
)

// Product is a sellable item with a unit price and an on-hand stock count.
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	Stock     int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct validates and constructs a new Product aggregate.
func NewProduct(name string, price decimal.Decimal, stock int64) (*Product, error) {
	product := &Product{
		Name:  strings.TrimSpace(name),
		Price: price,
		Stock: stock,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the aggregate.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if err := ValidatePrice(p.Price); err != nil {
		return err
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// ValidatePrice rejects negative prices and prices finer than cents.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if !price.Equal(price.Truncate(PriceScale)) {
		return ErrPricePrecision
	}
	return nil
}

// HasStock reports whether quantity units can be taken from the product.
func (p Product) HasStock(quantity int64) bool {
	return quantity <= p.Stock
}

// WithStockDecremented returns a copy of the product with quantity units removed.
// The receiver is left untouched.
func (p Product) WithStockDecremented(quantity int64) (Product, error) {
	if quantity <= 0 {
		return p, ErrInvalidQuantity
	}
	if !p.HasStock(quantity) {
		return p, ErrStockUnderflow
	}
	next := p
	next.Stock = p.Stock - quantity
	return next, nil
}
