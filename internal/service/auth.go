package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhms/alter/internal/model"
	"github.com/abhms/alter/internal/repository"
)

// AuthService exchanges Google ID tokens for local session tokens.
type AuthService struct {
	users    UserStore
	verifier IdentityVerifier
	tokens   SessionTokens
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, verifier IdentityVerifier, tokens SessionTokens, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    users,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger.With("component", "auth"),
	}
}

// SignInResult is the user and the session token issued for them.
type SignInResult struct {
	User  *model.User
	Token string
}

// GoogleSignIn verifies a Google ID token, finds or creates the user and
// issues a session token.
func (s *AuthService) GoogleSignIn(ctx context.Context, idToken string) (*SignInResult, error) {
	if idToken == "" {
		return nil, ErrTokenRequired
	}
	if s.verifier == nil {
		return nil, fmt.Errorf("%w: google sign-in is not configured", ErrInvalidCredentials)
	}

	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn("google_token_rejected", slog.String("error", err.Error()))
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetOrCreateUser(ctx, &model.User{
		GoogleID: identity.Subject,
		Name:     identity.Name,
		Email:    identity.Email,
		Avatar:   identity.Picture,
	})
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("sign_in_success", slog.String("user_id", user.ID))

	return &SignInResult{User: user, Token: token}, nil
}

// Authenticate verifies a session token and checks the user still exists.
// Returns the user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", ErrUnauthorized
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	return userID, nil
}
