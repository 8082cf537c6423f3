package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/gift-registry/internal/domains/catalog/domain"
)

var (
	// ErrInvalidInput signals the request violated a catalog invariant.
	ErrInvalidInput = errors.New("invalid experience input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrNegativePackages) ||
		errors.Is(err, domain.ErrInvalidIncrement) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
