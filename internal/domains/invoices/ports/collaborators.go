package ports

import (
	"context"
	"errors"

	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
)

// EventPublisher delivers domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// DocumentRenderer produces the printable form of an invoice.
type DocumentRenderer interface {
	RenderInvoice(invoice *domain.Invoice) ([]byte, error)
}

// ErrWorkflowTimeout reports that durable invoice creation did not finish in time, for
// example because no worker is polling the task queue.
var ErrWorkflowTimeout = errors.New("invoice workflow timed out")

// WorkflowOrchestrator runs invoice creation, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error)
}
