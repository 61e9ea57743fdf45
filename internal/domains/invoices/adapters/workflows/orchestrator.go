package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	"github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	invoiceactivities "github.com/Apurer/invoicing-api/internal/platform/temporal/activities/invoices"
	invoiceworkflows "github.com/Apurer/invoicing-api/internal/platform/temporal/workflows/invoices"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalInvoiceWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineInvoiceWorkflows)(nil)
)

// TemporalInvoiceWorkflows runs invoice creation as a Temporal workflow and waits for it.
type TemporalInvoiceWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalInvoiceWorkflows wires a Temporal client into the orchestrator.
func NewTemporalInvoiceWorkflows(c client.Client) *TemporalInvoiceWorkflows {
	return &TemporalInvoiceWorkflows{client: c, taskQueue: invoiceworkflows.InvoiceCreationTaskQueue}
}

// CreateInvoice starts the creation workflow and blocks until it completes. Rejections
// come back as the same typed errors the service returns.
func (o *TemporalInvoiceWorkflows) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*domain.Invoice, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal invoice workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:                       buildInvoiceCreationWorkflowID(input, traceComponent),
		TaskQueue:                o.taskQueue,
		WorkflowIDReusePolicy:    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionTimeout: invoiceworkflows.InvoiceCreationTimeout,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		invoiceworkflows.InvoiceCreationWorkflowName,
		invoiceworkflows.InvoiceCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil, fmt.Errorf("invoice workflow %s already started: %w", options.ID, err)
		}
		return nil, fmt.Errorf("start invoice workflow: %w", err)
	}
	var invoice domain.Invoice
	if err := run.Get(ctx, &invoice); err != nil {
		var timeoutErr *temporal.TimeoutError
		if errors.As(err, &timeoutErr) {
			return nil, fmt.Errorf("%w: %w", ports.ErrWorkflowTimeout, err)
		}
		return nil, invoiceactivities.FromWorkflowError(err)
	}
	return &invoice, nil
}

// InlineInvoiceWorkflows executes the service directly without Temporal.
type InlineInvoiceWorkflows struct {
	service ports.Service
}

// NewInlineInvoiceWorkflows wraps the invoices service for synchronous execution.
func NewInlineInvoiceWorkflows(service ports.Service) *InlineInvoiceWorkflows {
	return &InlineInvoiceWorkflows{service: service}
}

func (o *InlineInvoiceWorkflows) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*domain.Invoice, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline invoice workflows not configured")
	}
	return o.service.CreateInvoice(ctx, input)
}

// Every request gets its own workflow; invoice creation has no natural idempotency key.
func buildInvoiceCreationWorkflowID(input ports.CreateInvoiceInput, traceComponent string) string {
	return fmt.Sprintf("invoice-creation-%d-%s-%s", input.ClientID, uuid.NewString(), traceComponent)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
