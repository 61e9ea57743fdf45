package invoicingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/invoicing-api/internal/domains/products/adapters/http/mapper"
	productports "github.com/Apurer/invoicing-api/internal/domains/products/ports"
)

// ProductAPI wires HTTP transport with the product catalog service.
type ProductAPI struct {
	service productports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service productports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Post /api/products
// Add a product to the catalog
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload producthttpmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input, err := producthttpmapper.ToCreateInput(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, producthttpmapper.FromDomainProduct(created))
}

// Get /api/products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProducts(products))
}

// Get /api/products/search?name=
// Case-insensitive substring match on the product name
func (api *ProductAPI) SearchProducts(c *gin.Context) {
	products, err := api.service.SearchProducts(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProducts(products))
}

// Get /api/products/:productId
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(product))
}

// Put /api/products/:productId
// Partial update; omitted fields keep their value
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload producthttpmapper.MutationProduct
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	updated, err := api.service.UpdateProduct(c.Request.Context(), producthttpmapper.ToUpdateInput(id, payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(updated))
}

// Delete /api/products/:productId
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
