package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time `json:"occurredAt"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// InvoiceLine summarizes a line item for event consumers.
type InvoiceLine struct {
	ProductID int64           `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// InvoiceCreated is raised after an invoice and its stock decrements are committed.
type InvoiceCreated struct {
	BaseEvent
	InvoiceID int64           `json:"invoiceId"`
	ClientID  int64           `json:"clientId"`
	Total     decimal.Decimal `json:"total"`
	Lines     []InvoiceLine   `json:"lines"`
}

// EventName returns the event type identifier.
func (e InvoiceCreated) EventName() string {
	return "invoices.invoice.created"
}

// NewInvoiceCreated builds the creation event for a persisted invoice.
func NewInvoiceCreated(invoice *Invoice) InvoiceCreated {
	lines := make([]InvoiceLine, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		lines = append(lines, InvoiceLine{ProductID: item.ProductID, Quantity: item.Quantity, Subtotal: item.Subtotal})
	}
	return InvoiceCreated{
		BaseEvent: BaseEvent{Timestamp: invoice.CreatedAt},
		InvoiceID: invoice.ID,
		ClientID:  invoice.Client.ID,
		Total:     invoice.Total,
		Lines:     lines,
	}
}
