package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/gift-registry/internal/domains/cart/domain"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCartID) ||
		errors.Is(err, domain.ErrEmptyItemID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
