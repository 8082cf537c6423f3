package registryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/Apurer/gift-registry/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/Apurer/gift-registry/internal/domains/cart/ports"
)

// CartAPI exposes the guest's cart. The cart is identified by the X-Cart-ID header or the
// gift_cart cookie.
type CartAPI struct {
	service cartports.Service
}

func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Get /v1/cart
// Returns the cart items and suggested total
func (api *CartAPI) GetCart(c *gin.Context) {
	view, err := api.service.List(c.Request.Context(), cartID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromView(view))
}

// Put /v1/cart/items/:experienceId
// Adds an experience to the cart; adding it twice is a no-op
func (api *CartAPI) AddItem(c *gin.Context) {
	view, err := api.service.Add(c.Request.Context(), cartID(c), c.Param("experienceId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromView(view))
}

// Delete /v1/cart/items/:experienceId
// Removes an experience from the cart
func (api *CartAPI) RemoveItem(c *gin.Context) {
	view, err := api.service.Remove(c.Request.Context(), cartID(c), c.Param("experienceId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromView(view))
}

// Delete /v1/cart
// Empties the cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	if err := api.service.Clear(c.Request.Context(), cartID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /v1/cart/last-order
// Returns the snapshot of this cart's most recent checkout
func (api *CartAPI) GetLastOrder(c *gin.Context) {
	id := cartID(c)
	snapshot, err := api.service.LastOrder(c.Request.Context(), id)
	if err != nil {
		if isNotFound(err) {
			responder.NotFound(c, "last order", id)
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartmapper.FromLastOrder(snapshot))
}
