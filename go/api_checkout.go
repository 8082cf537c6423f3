package registryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutmapper "github.com/Apurer/gift-registry/internal/domains/checkout/adapters/http/mapper"
	checkoutports "github.com/Apurer/gift-registry/internal/domains/checkout/ports"
)

// CheckoutAPI turns carts into orders and looks orders up by session code.
type CheckoutAPI struct {
	service checkoutports.Service
}

func NewCheckoutAPI(service checkoutports.Service) CheckoutAPI {
	return CheckoutAPI{service: service}
}

// Post /v1/checkout
// Places an order for every experience in the cart
func (api *CheckoutAPI) Checkout(c *gin.Context) {
	var payload checkoutmapper.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	confirmation, err := api.service.Checkout(c.Request.Context(), cartID(c), payload.ToGuest())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkoutmapper.FromConfirmation(confirmation))
}

// Get /v1/orders/:sessionCode
// Finds the most recent order with the given session code
func (api *CheckoutAPI) VerifyOrder(c *gin.Context) {
	code := c.Param("sessionCode")
	verified, err := api.service.VerifyOrder(c.Request.Context(), code)
	if err != nil {
		if isNotFound(err) {
			responder.NotFound(c, "order", code)
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkoutmapper.FromVerifiedOrder(verified))
}
