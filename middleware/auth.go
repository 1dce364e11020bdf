package middleware

import (
	"errors"
	"log"
	"net/http"

	"blog-articles-service/auth"
	"blog-articles-service/metrics"
	"blog-articles-service/model"

	"github.com/gin-gonic/gin"
)

const (
	TokenHeader = "authtoken"
	viewerKey   = "viewer"
)

// Authenticate binds the viewer identity for the request. Requests without
// an authtoken header proceed as anonymous; a token that fails verification
// ends the request.
func Authenticate(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			c.Next()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		switch {
		case err == nil:
			metrics.AuthVerifications.WithLabelValues(verifier.Name(), "success").Inc()
			c.Set(viewerKey, identity)
			c.Next()
		case errors.Is(err, auth.ErrProviderUnavailable):
			metrics.AuthVerifications.WithLabelValues(verifier.Name(), "unavailable").Inc()
			log.Printf("[ERROR] Identity provider %s unavailable: %v", verifier.Name(), err)
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Identity provider unavailable."})
		default:
			metrics.AuthVerifications.WithLabelValues(verifier.Name(), "invalid").Inc()
			log.Printf("[WARN] Rejected authtoken: %v", err)
			c.Abort()
			c.String(http.StatusBadRequest, "Unable to verify authtoken.")
		}
	}
}

// RequireIdentity rejects anonymous viewers. Route specific permissions are
// checked by the handlers.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Viewer(c) == nil {
			c.Abort()
			c.String(http.StatusUnauthorized, "Not allowed.")
			return
		}
		c.Next()
	}
}

// Viewer returns the identity bound by Authenticate, or nil for anonymous
// requests.
func Viewer(c *gin.Context) *model.Identity {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*model.Identity)
	return identity
}
