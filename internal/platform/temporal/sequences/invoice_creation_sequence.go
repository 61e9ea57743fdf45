package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	invoiceactivities "github.com/Apurer/invoicing-api/internal/platform/temporal/activities/invoices"
)

// InvoiceCreationActivityOptions bounds how long the activity may wait for a worker and
// run. Both limits together stay below the workflow execution timeout.
func InvoiceCreationActivityOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		ScheduleToStartTimeout: 15 * time.Second,
		StartToCloseTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
}

// RunInvoiceCreationSequence executes the activity that issues an invoice. The activity
// is transactional and not idempotent, so it is attempted exactly once.
func RunInvoiceCreationSequence(ctx workflow.Context, input invoiceports.CreateInvoiceInput) (*invoicedomain.Invoice, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("invoice creation sequence started", "clientId", input.ClientID)
	var invoice invoicedomain.Invoice
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, InvoiceCreationActivityOptions()), invoiceactivities.CreateInvoiceActivityName, input).Get(ctx, &invoice)
	if err != nil {
		logger.Error("invoice creation sequence failed", "clientId", input.ClientID, "error", err)
		return nil, err
	}
	logger.Info("invoice creation sequence completed", "invoiceId", invoice.ID)
	return &invoice, nil
}
