package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
	"github.com/custodia-labs/energy-index/internal/core/ports/driving"
)

// DefaultTokenTTL is how long issued API tokens stay valid
const DefaultTokenTTL = 24 * time.Hour

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService authenticates the accounts configured at startup.
type authService struct {
	authAdapter driven.AuthAdapter
	accounts    map[string]domain.Account
	tokenTTL    time.Duration
}

// NewAuthService creates a new AuthService.
// Accounts without a username or password hash are skipped. When two
// accounts share a username the first one wins.
func NewAuthService(authAdapter driven.AuthAdapter, accounts []domain.Account, tokenTTL time.Duration) driving.AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	byName := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		if a.Username == "" || a.PasswordHash == "" {
			continue
		}
		if _, dup := byName[a.Username]; !dup {
			byName[a.Username] = a
		}
	}
	return &authService{
		authAdapter: authAdapter,
		accounts:    byName,
		tokenTTL:    tokenTTL,
	}
}

// Authenticate validates credentials and issues a token
func (s *authService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	account, ok := s.accounts[req.Username]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.authAdapter.VerifyPassword(req.Password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &domain.TokenClaims{
		Subject:   req.Username,
		Role:      account.Role,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}

	token, err := s.authAdapter.GenerateToken(claims)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken validates a JWT token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.authAdapter.ParseToken(token)
	if errors.Is(err, domain.ErrTokenExpired) {
		return nil, domain.ErrTokenExpired
	}
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	if claims.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	return &domain.AuthContext{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}
