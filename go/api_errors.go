package registryserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/gift-registry/internal/domains/cart/application"
	cartdomain "github.com/Apurer/gift-registry/internal/domains/cart/domain"
	cartports "github.com/Apurer/gift-registry/internal/domains/cart/ports"
	catalogapp "github.com/Apurer/gift-registry/internal/domains/catalog/application"
	catalogports "github.com/Apurer/gift-registry/internal/domains/catalog/ports"
	checkoutapp "github.com/Apurer/gift-registry/internal/domains/checkout/application"
	checkoutdomain "github.com/Apurer/gift-registry/internal/domains/checkout/domain"
	checkoutports "github.com/Apurer/gift-registry/internal/domains/checkout/ports"
	apierrors "github.com/Apurer/gift-registry/internal/shared/errors"
)

var responder = apierrors.NewResponder("",
	validationProblem,
	notFoundProblem,
	conflictProblem,
	upstreamProblem,
)

// respondServiceError maps application errors to RFC 7807 responses.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, cartports.ErrNotFound) ||
		errors.Is(err, checkoutports.ErrNotFound) ||
		errors.Is(err, catalogports.ErrNotFound)
}

var fieldErrors = []struct {
	err   error
	field string
}{
	{checkoutdomain.ErrGuestNameRequired, "name"},
	{checkoutdomain.ErrInvalidEmail, "email"},
	{checkoutdomain.ErrEmptyCart, "cart"},
	{checkoutdomain.ErrDuplicateLine, "cart"},
	{cartdomain.ErrEmptyCartID, "cartId"},
	{cartdomain.ErrEmptyItemID, "experienceId"},
}

func validationProblem(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, checkoutapp.ErrInvalidInput) &&
		!errors.Is(err, cartapp.ErrInvalidInput) &&
		!errors.Is(err, catalogapp.ErrInvalidInput) {
		return apierrors.ProblemDetail{}, false
	}
	fields := map[string]string{}
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			fields[fe.field] = fe.err.Error()
		}
	}
	return apierrors.NewValidationProblem(err.Error(), fields), true
}

func notFoundProblem(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, cartdomain.ErrUnknownItem) || isNotFound(err) {
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func conflictProblem(err error) (apierrors.ProblemDetail, bool) {
	var unavailable *checkoutdomain.UnavailableError
	if errors.As(err, &unavailable) {
		return apierrors.NewSoldOutProblem(err.Error(), unavailable.IDs), true
	}
	if errors.Is(err, cartdomain.ErrItemSoldOut) {
		return apierrors.ErrSoldOut.WithDetail(err.Error()), true
	}
	if errors.Is(err, checkoutdomain.ErrCheckoutInProgress) {
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// upstreamProblem uses fixed details: the wrapped causes carry database errors.
func upstreamProblem(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, catalogports.ErrCatalogUnavailable) {
		return apierrors.ErrServiceUnavailable.WithDetail("the catalog is not available yet, try again shortly"), true
	}
	if errors.Is(err, checkoutapp.ErrOrderCreation) {
		return apierrors.ErrBadGateway.WithDetail("the order could not be recorded and your cart was kept, please try again"), true
	}
	return apierrors.ProblemDetail{}, false
}
