package mapper

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	productdomain "github.com/Apurer/invoicing-api/internal/domains/products/domain"
	productports "github.com/Apurer/invoicing-api/internal/domains/products/ports"
)

var (
	errMissingName  = errors.New("name is required")
	errMissingPrice = errors.New("price is required")
)

// MutationProduct captures inbound create/update payloads while preserving field presence.
// Prices accept both JSON numbers and strings.
type MutationProduct struct {
	Name  *string              `json:"name,omitempty"`
	Price *decimal.NullDecimal `json:"price,omitempty"`
	Stock *int64               `json:"stock,omitempty"`
}

// Product is the HTTP representation of a catalog entry.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int64     `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToCreateInput converts a create payload into the service input.
func ToCreateInput(payload MutationProduct) (productports.CreateProductInput, error) {
	if payload.Name == nil {
		return productports.CreateProductInput{}, errMissingName
	}
	if payload.Price == nil || !payload.Price.Valid {
		return productports.CreateProductInput{}, errMissingPrice
	}
	input := productports.CreateProductInput{Name: *payload.Name, Price: payload.Price.Decimal}
	if payload.Stock != nil {
		input.Stock = *payload.Stock
	}
	return input, nil
}

// ToUpdateInput converts an update payload into a partial service input.
func ToUpdateInput(id int64, payload MutationProduct) productports.UpdateProductInput {
	input := productports.UpdateProductInput{ID: id, Name: payload.Name, Stock: payload.Stock}
	if payload.Price != nil && payload.Price.Valid {
		price := payload.Price.Decimal
		input.Price = &price
	}
	return input
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(product *productdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:        product.ID,
		Name:      product.Name,
		Price:     product.Price.StringFixed(productdomain.PriceScale),
		Stock:     product.Stock,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

// FromDomainProducts converts a list of domain products.
func FromDomainProducts(products []*productdomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, product := range products {
		out = append(out, FromDomainProduct(product))
	}
	return out
}
