package invoices

import (
	"time"

	"go.temporal.io/sdk/workflow"

	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	"github.com/Apurer/invoicing-api/internal/platform/temporal/sequences"
)

const (
	// InvoiceCreationWorkflowName is the public identifier for registering the workflow.
	InvoiceCreationWorkflowName = "invoices.workflows.Creation"
	// InvoiceCreationTaskQueue is the queue consumed by the worker processing invoice workflows.
	InvoiceCreationTaskQueue = "INVOICE_CREATION"
	// InvoiceCreationTimeout caps a whole workflow execution, including time spent waiting
	// for a worker.
	InvoiceCreationTimeout = time.Minute
)

// InvoiceCreationWorkflowInput captures the invoice command and the caller's trace ID.
type InvoiceCreationWorkflowInput struct {
	Command invoiceports.CreateInvoiceInput
	TraceID string
}

// InvoiceCreationWorkflow issues an invoice through the creation sequence.
func InvoiceCreationWorkflow(ctx workflow.Context, input InvoiceCreationWorkflowInput) (*invoicedomain.Invoice, error) {
	logger := workflow.GetLogger(ctx)
	clientID := input.Command.ClientID
	logger.Info("InvoiceCreationWorkflow started", withTraceID(input.TraceID, "clientId", clientID)...)
	invoice, err := sequences.RunInvoiceCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("InvoiceCreationWorkflow failed", withTraceID(input.TraceID, "clientId", clientID, "error", err)...)
		return nil, err
	}
	logger.Info("InvoiceCreationWorkflow completed", withTraceID(input.TraceID, "invoiceId", invoice.ID)...)
	return invoice, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
