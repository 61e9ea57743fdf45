package mapper

import (
	"time"

	clientdomain "github.com/Apurer/invoicing-api/internal/domains/clients/domain"
	clientports "github.com/Apurer/invoicing-api/internal/domains/clients/ports"
)

// CreateClient is the inbound payload for client registration.
type CreateClient struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	IdentificationNumber string `json:"identificationNumber"`
}

// Client is the HTTP representation of a client.
type Client struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	IdentificationNumber string    `json:"identificationNumber"`
	CreatedAt            time.Time `json:"createdAt"`
}

// ToCreateInput converts a transport payload into the service input.
func ToCreateInput(payload CreateClient) clientports.CreateClientInput {
	return clientports.CreateClientInput{
		Name:                 payload.Name,
		Email:                payload.Email,
		IdentificationNumber: payload.IdentificationNumber,
	}
}

// FromDomainClient converts a domain client to the transport representation.
func FromDomainClient(client *clientdomain.Client) Client {
	if client == nil {
		return Client{}
	}
	return Client{
		ID:                   client.ID,
		Name:                 client.Name,
		Email:                client.Email,
		IdentificationNumber: client.IdentificationNumber,
		CreatedAt:            client.CreatedAt,
	}
}

// FromDomainClients converts a list of domain clients.
func FromDomainClients(clients []*clientdomain.Client) []Client {
	out := make([]Client, 0, len(clients))
	for _, client := range clients {
		out = append(out, FromDomainClient(client))
	}
	return out
}
