package application

import (
	"errors"
	"fmt"

	cartdomain "github.com/Apurer/gift-registry/internal/domains/cart/domain"
	"github.com/Apurer/gift-registry/internal/domains/checkout/domain"
)

var (
	// ErrInvalidInput signals the request violated a checkout invariant.
	ErrInvalidInput = errors.New("invalid checkout input")
	// ErrOrderCreation signals the order could not be written. Nothing was mutated and the
	// checkout may be retried.
	ErrOrderCreation = errors.New("order could not be created")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrGuestNameRequired) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrDuplicateLine) ||
		errors.Is(err, domain.ErrInvalidPackagesCount) ||
		errors.Is(err, cartdomain.ErrEmptyCartID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
