package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
)

var (
	// ErrClientNotFound matches ClientNotFoundError.
	ErrClientNotFound = errors.New("client not found")
	// ErrProductNotFound matches ProductNotFoundError.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock matches InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidRequest matches InvalidRequestError.
	ErrInvalidRequest = errors.New("invalid invoice request")
	// ErrInvoiceNotFound is returned by invoice lookups.
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// ClientNotFoundError reports that the invoiced client does not exist.
type ClientNotFoundError struct {
	ClientID int64 `json:"clientId"`
}

func (e *ClientNotFoundError) Error() string {
	return fmt.Sprintf("client %d not found", e.ClientID)
}

func (e *ClientNotFoundError) Unwrap() error { return ErrClientNotFound }

// ProductNotFoundError reports a line item referencing an unknown product.
type ProductNotFoundError struct {
	ProductID int64 `json:"productId"`
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrProductNotFound }

// InsufficientStockError reports a line item asking for more units than are available.
// Available accounts for earlier lines of the same request.
type InsufficientStockError struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Requested   int64  `json:"requested"`
	Available   int64  `json:"available"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (id %d): requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidRequestError reports a malformed invoice request.
type InvalidRequestError struct {
	Reason string `json:"reason"`
}

func (e *InvalidRequestError) Error() string {
	return "invalid invoice request: " + e.Reason
}

func (e *InvalidRequestError) Unwrap() error { return ErrInvalidRequest }

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoLineItems) || errors.Is(err, domain.ErrInvalidQuantity) {
		return &InvalidRequestError{Reason: err.Error()}
	}
	return err
}
