package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enhanced-seatmap/internal/handler/httperr"
)

const SharedSecretHeader = "X-Auth"

var errBadSharedSecret = errors.New("shared secret mismatch")

// RequireSharedSecret rejects requests whose X-Auth header does not equal
// secret. An empty configured secret rejects everything.
func RequireSharedSecret(secret string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(SharedSecretHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			httperr.AbortWithError(c, http.StatusForbidden, errBadSharedSecret, "Forbidden", nil)
			return
		}
		c.Next()
	}
}
