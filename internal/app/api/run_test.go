package api

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	invoicesworkflows "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/workflows"
	"github.com/Apurer/invoicing-api/internal/platform/database"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSelectInvoiceWorkflows_MemoryDriverStaysInline(t *testing.T) {
	cfg := Config{Database: database.Settings{Driver: database.DriverMemory}}
	dialed := false

	orchestrator, closeFn := selectInvoiceWorkflows(cfg, nil, func(Config) (client.Client, error) {
		dialed = true
		return &mocks.Client{}, nil
	}, discardLogger())
	defer closeFn()

	require.False(t, dialed)
	require.IsType(t, &invoicesworkflows.InlineInvoiceWorkflows{}, orchestrator)
}

func TestSelectInvoiceWorkflows_FallsBackWhenTemporalUnreachable(t *testing.T) {
	cfg := Config{Database: database.Settings{Driver: database.DriverPostgres, PostgresDSN: "postgres://db/invoicing"}}

	orchestrator, closeFn := selectInvoiceWorkflows(cfg, nil, func(Config) (client.Client, error) {
		return nil, errors.New("connection refused")
	}, discardLogger())
	defer closeFn()

	require.IsType(t, &invoicesworkflows.InlineInvoiceWorkflows{}, orchestrator)
}

func TestSelectInvoiceWorkflows_SharedDatabaseUsesTemporal(t *testing.T) {
	cfg := Config{Database: database.Settings{Driver: database.DriverSQLite, SQLitePath: "invoicing.db"}}
	temporalClient := &mocks.Client{}
	temporalClient.On("Close").Return().Once()

	orchestrator, closeFn := selectInvoiceWorkflows(cfg, nil, func(Config) (client.Client, error) {
		return temporalClient, nil
	}, discardLogger())

	require.IsType(t, &invoicesworkflows.TemporalInvoiceWorkflows{}, orchestrator)
	closeFn()
	temporalClient.AssertExpectations(t)
}
