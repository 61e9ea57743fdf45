package invoices

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	clientmemory "github.com/Apurer/invoicing-api/internal/domains/clients/adapters/memory"
	clientdomain "github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	invoicememory "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/memory"
	invoicesapp "github.com/Apurer/invoicing-api/internal/domains/invoices/application"
	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	productmemory "github.com/Apurer/invoicing-api/internal/domains/products/adapters/memory"
	productdomain "github.com/Apurer/invoicing-api/internal/domains/products/domain"
	invoiceactivities "github.com/Apurer/invoicing-api/internal/platform/temporal/activities/invoices"
)

type fixture struct {
	env      *testsuite.TestWorkflowEnvironment
	products *productmemory.Repository
	clientID int64
	widgetID int64
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	clients := clientmemory.NewRepository()
	products := productmemory.NewRepository()

	client, err := clientdomain.NewClient("Acme", "billing@acme.test", "A-100")
	require.NoError(t, err)
	client, err = clients.Create(ctx, client)
	require.NoError(t, err)
	widget, err := productdomain.NewProduct("Widget", decimal.RequireFromString("10.00"), 5)
	require.NoError(t, err)
	widget, err = products.Create(ctx, widget)
	require.NoError(t, err)

	store := invoicememory.NewStore(clients, products)
	service := invoicesapp.NewService(store, store)
	acts := invoiceactivities.NewActivities(service)

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivityWithOptions(acts.CreateInvoice, activity.RegisterOptions{Name: invoiceactivities.CreateInvoiceActivityName})
	return fixture{env: env, products: products, clientID: client.ID, widgetID: widget.ID}
}

func TestInvoiceCreationWorkflow_IssuesInvoice(t *testing.T) {
	f := newFixture(t)

	f.env.ExecuteWorkflow(InvoiceCreationWorkflow, InvoiceCreationWorkflowInput{
		Command: invoiceports.CreateInvoiceInput{
			ClientID: f.clientID,
			Items:    []invoiceports.LineItemRequest{{ProductID: f.widgetID, Quantity: 3}},
		},
		TraceID: "trace-1",
	})

	require.True(t, f.env.IsWorkflowCompleted())
	require.NoError(t, f.env.GetWorkflowError())
	var invoice invoicedomain.Invoice
	require.NoError(t, f.env.GetWorkflowResult(&invoice))
	require.Equal(t, "30.00", invoice.Total.StringFixed(invoicedomain.MoneyScale))
	require.Equal(t, f.clientID, invoice.Client.ID)

	widget, err := f.products.GetByID(context.Background(), f.widgetID)
	require.NoError(t, err)
	require.Equal(t, int64(2), widget.Stock)
}

func TestInvoiceCreationWorkflow_InsufficientStockIsNotRetried(t *testing.T) {
	f := newFixture(t)
	attempts := 0
	f.env.SetOnActivityStartedListener(func(*activity.Info, context.Context, converter.EncodedValues) {
		attempts++
	})

	f.env.ExecuteWorkflow(InvoiceCreationWorkflow, InvoiceCreationWorkflowInput{
		Command: invoiceports.CreateInvoiceInput{
			ClientID: f.clientID,
			Items:    []invoiceports.LineItemRequest{{ProductID: f.widgetID, Quantity: 10}},
		},
	})

	require.True(t, f.env.IsWorkflowCompleted())
	err := f.env.GetWorkflowError()
	require.Error(t, err)
	require.Equal(t, 1, attempts)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, invoiceactivities.ErrorTypeInsufficientStock, appErr.Type())

	restored := invoiceactivities.FromWorkflowError(err)
	var stockErr *invoicesapp.InsufficientStockError
	require.ErrorAs(t, restored, &stockErr)
	require.Equal(t, int64(10), stockErr.Requested)
	require.Equal(t, int64(5), stockErr.Available)
	require.ErrorIs(t, restored, invoicesapp.ErrInsufficientStock)

	widget, getErr := f.products.GetByID(context.Background(), f.widgetID)
	require.NoError(t, getErr)
	require.Equal(t, int64(5), widget.Stock)
}

func TestInvoiceCreationWorkflow_UnknownClient(t *testing.T) {
	f := newFixture(t)

	f.env.ExecuteWorkflow(InvoiceCreationWorkflow, InvoiceCreationWorkflowInput{
		Command: invoiceports.CreateInvoiceInput{
			ClientID: 404,
			Items:    []invoiceports.LineItemRequest{{ProductID: f.widgetID, Quantity: 1}},
		},
	})

	restored := invoiceactivities.FromWorkflowError(f.env.GetWorkflowError())
	var clientErr *invoicesapp.ClientNotFoundError
	require.ErrorAs(t, restored, &clientErr)
	require.Equal(t, int64(404), clientErr.ClientID)
}
