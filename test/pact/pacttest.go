//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "invoicing-api"
	ConsumerName = "billing-portal"

	StateCatalogSeeded  = "client 1 exists and product 1 has 5 units at 10.00"
	StateInvoiceExists  = "invoice 1 exists for client 1"
	StateInvoiceMissing = "no invoice with id 404"
)

const (
	ExistingClientID  int64 = 1
	ExistingProductID int64 = 1
	ExistingInvoiceID int64 = 1
	MissingInvoiceID  int64 = 404
	SeededStock       int64 = 5
)

const (
	SeededPrice          = "10.00"
	SeededProductName    = "Pact Fountain Pen"
	SeededClientName     = "Pact Client"
	SeededClientEmail    = "pact.client@example.com"
	SeededClientIDNumber = "PACT-0001"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the billing portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleInvoicePayload is the invoice the provider returns for the seeded catalog
// after buying three units of the seeded product.
func ExampleInvoicePayload() map[string]any {
	return map[string]any{
		"id":        ExistingInvoiceID,
		"createdAt": "2025-01-15T10:00:00Z",
		"client": map[string]any{
			"id":                   ExistingClientID,
			"name":                 SeededClientName,
			"email":                SeededClientEmail,
			"identificationNumber": SeededClientIDNumber,
		},
		"items": []map[string]any{{
			"id":          1,
			"productId":   ExistingProductID,
			"productName": SeededProductName,
			"quantity":    3,
			"unitPrice":   SeededPrice,
			"subtotal":    "30.00",
		}},
		"total": "30.00",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
