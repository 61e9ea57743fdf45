package invoices

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
)

// CreateInvoiceActivityName is the registration name of Activities.CreateInvoice.
const CreateInvoiceActivityName = "invoices.activities.CreateInvoice"

// Activities groups activities that operate on the invoices bounded context.
type Activities struct {
	service invoiceports.Service
}

// NewActivities wires the invoices service into the Temporal activities bundle.
func NewActivities(service invoiceports.Service) *Activities {
	return &Activities{service: service}
}

// CreateInvoice runs the transactional invoice creation. Business rejections are returned
// as non-retryable application errors carrying the typed error as details.
func (a *Activities) CreateInvoice(ctx context.Context, input invoiceports.CreateInvoiceInput) (*invoicedomain.Invoice, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("invoice activity not initialized", "clientId", input.ClientID)
		return nil, errors.New("invoice activity not initialized")
	}
	logger.Info("CreateInvoice activity started", "clientId", input.ClientID, "lines", len(input.Items))
	invoice, err := a.service.CreateInvoice(ctx, input)
	if err != nil {
		logger.Error("CreateInvoice activity failed", "clientId", input.ClientID, "error", err)
		return nil, ToApplicationError(err)
	}
	logger.Info("CreateInvoice activity completed", "invoiceId", invoice.ID, "total", invoice.Total.StringFixed(invoicedomain.MoneyScale))
	return invoice, nil
}
