package sequences_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/invoicing-api/internal/platform/temporal/sequences"
	invoiceworkflows "github.com/Apurer/invoicing-api/internal/platform/temporal/workflows/invoices"
)

func TestInvoiceCreationActivityOptions(t *testing.T) {
	options := sequences.InvoiceCreationActivityOptions()

	require.Positive(t, options.ScheduleToStartTimeout)
	require.Positive(t, options.StartToCloseTimeout)
	require.EqualValues(t, 1, options.RetryPolicy.MaximumAttempts)
	require.Less(t, options.ScheduleToStartTimeout+options.StartToCloseTimeout, invoiceworkflows.InvoiceCreationTimeout)
}
