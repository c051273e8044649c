package driven

import "github.com/custodia-labs/energy-index/internal/core/domain"

// AuthAdapter hashes the admin password and signs API tokens.
type AuthAdapter interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool

	// GenerateToken signs claims. ParseToken verifies a token and returns its
	// claims, wrapping domain.ErrTokenExpired for expired tokens.
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
