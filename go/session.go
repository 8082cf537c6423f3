package registryserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CartCookieName carries the cart id for browser clients.
	CartCookieName = "gift_cart"
	// CartHeaderName carries the cart id for API clients and is echoed on every cart response.
	CartHeaderName = "X-Cart-ID"

	cartCookieMaxAge = 60 * 60 * 24 * 90
)

// cartID resolves the caller's cart id from the header or cookie. A missing or malformed id is
// replaced by a fresh one, which is issued back as a cookie.
func cartID(c *gin.Context) string {
	if id, ok := parseCartID(c.GetHeader(CartHeaderName)); ok {
		c.Header(CartHeaderName, id)
		return id
	}
	if raw, err := c.Cookie(CartCookieName); err == nil {
		if id, ok := parseCartID(raw); ok {
			c.Header(CartHeaderName, id)
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CartCookieName, id, cartCookieMaxAge, "/", "", false, true)
	c.Header(CartHeaderName, id)
	return id
}

func parseCartID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
