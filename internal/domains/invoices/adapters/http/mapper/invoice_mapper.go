package mapper

import (
	"errors"
	"time"

	invoicedomain "github.com/Apurer/invoicing-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
)

var errMissingQuantity = errors.New("quantity is required")

// LineItemRequest is one entry of the create-invoice payload.
type LineItemRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  *int64 `json:"quantity"`
}

// ClientSummary is the client snapshot embedded in invoice responses.
type ClientSummary struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	IdentificationNumber string `json:"identificationNumber"`
}

// LineItem is the HTTP representation of an invoice line.
type LineItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Subtotal    string `json:"subtotal"`
}

// Invoice is the HTTP representation of an invoice.
type Invoice struct {
	ID        int64         `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Client    ClientSummary `json:"client"`
	Items     []LineItem    `json:"items"`
	Total     string        `json:"total"`
}

// ToCreateInput converts the path client ID and body lines into the workflow command.
func ToCreateInput(clientID int64, items []LineItemRequest) (invoiceports.CreateInvoiceInput, error) {
	lines := make([]invoiceports.LineItemRequest, 0, len(items))
	for _, item := range items {
		if item.Quantity == nil {
			return invoiceports.CreateInvoiceInput{}, errMissingQuantity
		}
		lines = append(lines, invoiceports.LineItemRequest{ProductID: item.ProductID, Quantity: *item.Quantity})
	}
	return invoiceports.CreateInvoiceInput{ClientID: clientID, Items: lines}, nil
}

// FromDomainInvoice converts a domain invoice to the transport representation.
func FromDomainInvoice(invoice *invoicedomain.Invoice) Invoice {
	if invoice == nil {
		return Invoice{}
	}
	items := make([]LineItem, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, LineItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(invoicedomain.MoneyScale),
			Subtotal:    item.Subtotal.StringFixed(invoicedomain.MoneyScale),
		})
	}
	return Invoice{
		ID:        invoice.ID,
		CreatedAt: invoice.CreatedAt,
		Client: ClientSummary{
			ID:                   invoice.Client.ID,
			Name:                 invoice.Client.Name,
			Email:                invoice.Client.Email,
			IdentificationNumber: invoice.Client.IdentificationNumber,
		},
		Items: items,
		Total: invoice.Total.StringFixed(invoicedomain.MoneyScale),
	}
}

// FromDomainInvoices converts a list of domain invoices.
func FromDomainInvoices(invoices []*invoicedomain.Invoice) []Invoice {
	out := make([]Invoice, 0, len(invoices))
	for _, invoice := range invoices {
		out = append(out, FromDomainInvoice(invoice))
	}
	return out
}
