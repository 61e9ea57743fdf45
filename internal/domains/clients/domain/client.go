package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName           = errors.New("client name is required")
	ErrInvalidEmail        = errors.New("client email is invalid")
	ErrEmptyIdentification = errors.New("client identification number is required")
)

// Client models a customer that invoices are issued to.
type Client struct {
	ID                   int64
	Name                 string
	Email                string
	IdentificationNumber string
	CreatedAt            time.Time
}

// NewClient normalizes and validates a new Client aggregate.
func NewClient(name, email, identificationNumber string) (*Client, error) {
	client := &Client{
		Name:                 strings.TrimSpace(name),
		Email:                strings.ToLower(strings.TrimSpace(email)),
		IdentificationNumber: strings.TrimSpace(identificationNumber),
	}
	if err := client.Validate(); err != nil {
		return nil, err
	}
	return client, nil
}

// Validate enforces invariants on the aggregate.
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	email := strings.TrimSpace(c.Email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(c.IdentificationNumber) == "" {
		return ErrEmptyIdentification
	}
	return nil
}
