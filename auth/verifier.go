package auth

import (
	"context"
	"errors"

	"blog-articles-service/model"
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// Verifier turns an opaque authtoken into a verified identity. It fails
// with ErrInvalidToken for malformed, expired or foreign tokens and with
// ErrProviderUnavailable when the provider could not be reached.
type Verifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
	Name() string
}
