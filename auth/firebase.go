package auth

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"blog-articles-service/model"
)

type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier reads the service account credentials once and builds
// the Firebase auth client.
func NewFirebaseVerifier(ctx context.Context, credentialsPath string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	log.Printf("[INFO] Firebase auth client initialized from %s", credentialsPath)
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Name() string { return "firebase" }

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if fbauth.IsCertificateFetchFailed(err) {
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email, _ := decoded.Claims["email"].(string)
	return &model.Identity{
		UID:    decoded.UID,
		Email:  email,
		Claims: decoded.Claims,
	}, nil
}
