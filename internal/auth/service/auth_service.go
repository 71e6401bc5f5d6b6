package service

import (
	"context"
	"errors"
	"fmt"

	"crypto-pulse/internal/auth/dto"
	"crypto-pulse/internal/auth/repository"
	"crypto-pulse/internal/entity"
	"crypto-pulse/pkg/logger"

	"firebase.google.com/go/v4/auth"
)

// ErrInvalidToken signals that the presented ID token failed verification.
var ErrInvalidToken = errors.New("invalid authentication token")

// TokenAuthority verifies ID tokens and mints custom session tokens.
// *auth.Client satisfies it.
type TokenAuthority interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	CustomToken(ctx context.Context, uid string) (string, error)
}

// AuthService handles Google sign-in against Firebase.
type AuthService interface {
	// SignInWithGoogle verifies the ID token, creates the profile on first
	// sign-in or bumps last_login otherwise, and returns the profile with
	// a custom session token.
	SignInWithGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error)
}

// NewAuthService creates a new auth service.
func NewAuthService(tokens TokenAuthority, users repository.UserRepository, log *logger.Logger) AuthService {
	return &authService{tokens: tokens, users: users, logger: log}
}

type authService struct {
	tokens TokenAuthority
	users  repository.UserRepository
	logger *logger.Logger
}

func (s *authService) SignInWithGoogle(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	decoded, err := s.tokens.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	uid := decoded.UID

	if _, err := s.users.Get(ctx, uid); err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		profile := &entity.UserProfile{
			UID:     uid,
			Name:    claimString(decoded.Claims, "name"),
			Email:   claimString(decoded.Claims, "email"),
			Picture: claimString(decoded.Claims, "picture"),
		}
		if err := s.users.Create(ctx, profile); err != nil {
			return nil, err
		}
		s.logger.Info("User profile created", logger.StringField("uid", uid))
	} else {
		if err := s.users.BumpLastLogin(ctx, uid); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.CustomToken(ctx, uid)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Success: true,
		Message: "User authenticated successfully",
		User:    updated,
		Token:   token,
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
