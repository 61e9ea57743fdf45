package invoices

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	invoicesapp "github.com/Apurer/invoicing-api/internal/domains/invoices/application"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
)

// Application error types used to carry invoice rejections across the workflow boundary.
const (
	ErrorTypeClientNotFound    = "ClientNotFound"
	ErrorTypeProductNotFound   = "ProductNotFound"
	ErrorTypeInsufficientStock = "InsufficientStock"
	ErrorTypeInvalidRequest    = "InvalidRequest"
	ErrorTypeConcurrentUpdate  = "ConcurrentUpdate"
)

// ToApplicationError converts typed invoice rejections into non-retryable Temporal
// application errors. Other errors are returned unchanged.
func ToApplicationError(err error) error {
	var (
		clientErr  *invoicesapp.ClientNotFoundError
		productErr *invoicesapp.ProductNotFoundError
		stockErr   *invoicesapp.InsufficientStockError
		invalidErr *invoicesapp.InvalidRequestError
	)
	switch {
	case errors.As(err, &clientErr):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeClientNotFound, err, *clientErr)
	case errors.As(err, &productErr):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeProductNotFound, err, *productErr)
	case errors.As(err, &stockErr):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInsufficientStock, err, *stockErr)
	case errors.As(err, &invalidErr):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeInvalidRequest, err, *invalidErr)
	case errors.Is(err, invoiceports.ErrConcurrentUpdate):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrorTypeConcurrentUpdate, err)
	default:
		return err
	}
}

// FromWorkflowError restores the typed invoice error carried by a workflow failure so
// callers see the same errors as with inline execution. Unrecognized errors pass through.
func FromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrorTypeClientNotFound:
		var detail invoicesapp.ClientNotFoundError
		if appErr.Details(&detail) == nil {
			return &detail
		}
	case ErrorTypeProductNotFound:
		var detail invoicesapp.ProductNotFoundError
		if appErr.Details(&detail) == nil {
			return &detail
		}
	case ErrorTypeInsufficientStock:
		var detail invoicesapp.InsufficientStockError
		if appErr.Details(&detail) == nil {
			return &detail
		}
	case ErrorTypeInvalidRequest:
		var detail invoicesapp.InvalidRequestError
		if appErr.Details(&detail) == nil {
			return &detail
		}
	case ErrorTypeConcurrentUpdate:
		return fmt.Errorf("%s: %w", appErr.Error(), invoiceports.ErrConcurrentUpdate)
	}
	return err
}
