package registryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API surface.
type ApiHandleFunctions struct {
	// Routes for the catalog part of the API
	CatalogAPI CatalogAPI
	// Routes for the cart part of the API
	CartAPI CartAPI
	// Routes for the checkout part of the API
	CheckoutAPI CheckoutAPI
	// Routes for liveness probes
	HealthAPI HealthAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"ListExperiences", http.MethodGet, "/v1/experiences", handleFunctions.CatalogAPI.ListExperiences},
		{"GetExperience", http.MethodGet, "/v1/experiences/:experienceId", handleFunctions.CatalogAPI.GetExperience},
		{"GetCart", http.MethodGet, "/v1/cart", handleFunctions.CartAPI.GetCart},
		{"AddCartItem", http.MethodPut, "/v1/cart/items/:experienceId", handleFunctions.CartAPI.AddItem},
		{"RemoveCartItem", http.MethodDelete, "/v1/cart/items/:experienceId", handleFunctions.CartAPI.RemoveItem},
		{"ClearCart", http.MethodDelete, "/v1/cart", handleFunctions.CartAPI.ClearCart},
		{"GetLastOrder", http.MethodGet, "/v1/cart/last-order", handleFunctions.CartAPI.GetLastOrder},
		{"Checkout", http.MethodPost, "/v1/checkout", handleFunctions.CheckoutAPI.Checkout},
		{"VerifyOrder", http.MethodGet, "/v1/orders/:sessionCode", handleFunctions.CheckoutAPI.VerifyOrder},
		{"Healthz", http.MethodGet, "/healthz", handleFunctions.HealthAPI.Healthz},
	}
}
