package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"blog-articles-service/model"
)

// Claims is the payload of a locally signed development token.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Admin bool   `json:"admin,omitempty"`
	Exp   int64  `json:"exp"`
}

// LocalVerifier accepts HMAC signed tokens of the form payload.signature.
// It stands in for the identity provider when AUTH_MODE=local.
type LocalVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret), now: time.Now}
}

func (v *LocalVerifier) Name() string { return "local" }

func (v *LocalVerifier) IssueToken(claims Claims) (string, error) {
	payloadBytes, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	return payload + "." + v.sign(payload), nil
}

func (v *LocalVerifier) Verify(_ context.Context, token string) (*model.Identity, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, ErrInvalidToken
	}
	payload, signature := parts[0], parts[1]

	if !hmac.Equal([]byte(signature), []byte(v.sign(payload))) {
		return nil, ErrInvalidToken
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.UID == "" || claims.Exp == 0 {
		return nil, ErrInvalidToken
	}
	if v.now().Unix() >= claims.Exp {
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}

	return &model.Identity{
		UID:    claims.UID,
		Email:  claims.Email,
		Claims: map[string]interface{}{"email": claims.Email, "admin": claims.Admin},
	}, nil
}

func (v *LocalVerifier) sign(payload string) string {
	sum := hmac.New(sha256.New, v.secret)
	_, _ = sum.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(sum.Sum(nil))
}
