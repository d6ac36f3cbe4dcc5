package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ErrGoogleTokenInvalid is returned when a Google ID token fails validation.
var ErrGoogleTokenInvalid = errors.New("invalid google id token")

// GoogleIdentity is the subset of a Google ID token the service uses.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier validates Google ID tokens against a client id.
type GoogleVerifier struct {
	clientID  string
	validator *idtoken.Validator
}

// NewGoogleVerifier creates a verifier for tokens issued to clientID.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	validator, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("create id token validator: %w", err)
	}
	return &GoogleVerifier{clientID: clientID, validator: validator}, nil
}

// Verify validates the token and extracts the identity claims.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleIdentity, error) {
	payload, err := v.validator.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleTokenInvalid, err)
	}
	return identityFromClaims(payload.Subject, payload.Claims)
}

func identityFromClaims(subject string, claims map[string]interface{}) (*GoogleIdentity, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrGoogleTokenInvalid)
	}

	identity := &GoogleIdentity{Subject: subject}
	identity.Email, _ = claims["email"].(string)
	identity.Name, _ = claims["name"].(string)
	identity.Picture, _ = claims["picture"].(string)

	if identity.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrGoogleTokenInvalid)
	}
	return identity, nil
}
