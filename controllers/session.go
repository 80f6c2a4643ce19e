package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cartCookieName   = "cart_session"
	cartHeaderName   = "X-Cart-Session"
	cartCookieMaxAge = 7 * 24 * 60 * 60
)

// cartSessionID returns the caller's cart session, issuing a new cookie when
// there is none. API clients may send the id in a header instead.
func cartSessionID(c *gin.Context) string {
	if id := c.GetHeader(cartHeaderName); id != "" {
		return id
	}
	if id, err := c.Cookie(cartCookieName); err == nil && id != "" {
		return id
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cartCookieName, id, cartCookieMaxAge, "/", "", false, true)
	c.Header(cartHeaderName, id)
	return id
}
