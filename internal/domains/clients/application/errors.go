package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/invoicing-api/internal/domains/clients/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid client input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyIdentification) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
