package invoicingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	clienthttpmapper "github.com/Apurer/invoicing-api/internal/domains/clients/adapters/http/mapper"
	clientports "github.com/Apurer/invoicing-api/internal/domains/clients/ports"
)

// ClientAPI wires HTTP transport with the clients service.
type ClientAPI struct {
	service clientports.Service
}

// NewClientAPI creates a ClientAPI backed by the provided service.
func NewClientAPI(service clientports.Service) ClientAPI {
	return ClientAPI{service: service}
}

// Post /api/clients
// Register a client
func (api *ClientAPI) CreateClient(c *gin.Context) {
	var payload clienthttpmapper.CreateClient
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.service.CreateClient(c.Request.Context(), clienthttpmapper.ToCreateInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, clienthttpmapper.FromDomainClient(created))
}

// Get /api/clients
func (api *ClientAPI) ListClients(c *gin.Context) {
	clients, err := api.service.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clienthttpmapper.FromDomainClients(clients))
}

// Get /api/clients/:clientId
func (api *ClientAPI) GetClient(c *gin.Context) {
	id, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	client, err := api.service.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clienthttpmapper.FromDomainClient(client))
}

// Delete /api/clients/:clientId
// Issued invoices keep their client snapshot.
func (api *ClientAPI) DeleteClient(c *gin.Context) {
	id, ok := parseIDParam(c, "clientId")
	if !ok {
		return
	}
	if err := api.service.DeleteClient(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
