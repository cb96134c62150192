// Package auth is a capability module issuing and verifying HMAC-signed JWTs
// and hashing secrets with bcrypt. It depends on "cache" for its revocation
// denylist.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/krishnapaul242/gati/loader"
	"github.com/krishnapaul242/gati/modules/cache"
)

// ErrRevoked is returned by VerifyToken when the token's ID is on the
// denylist.
var ErrRevoked = errors.New("auth: token revoked")

// Config configures token issuance.
type Config struct {
	SigningKey string
	Issuer     string
	TokenTTL   time.Duration
}

func (c Config) withDefaults() Config {
	if c.TokenTTL <= 0 {
		c.TokenTTL = 15 * time.Minute
	}
	return c
}

// BcryptCost is the work factor used by HashSecret.
const BcryptCost = bcrypt.DefaultCost

// Claims is the JWT payload issued by IssueToken.
type Claims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// Module owns the signing key and the denylist handle obtained from cache
// during Init.
type Module struct {
	cfg       Config
	denylist  cache.TokenDenylist
	hasDenyli bool
}

// New returns an uninitialized Module.
func New(cfg Config) *Module {
	return &Module{cfg: cfg.withDefaults()}
}

func (m *Module) Name() string           { return "auth" }
func (m *Module) Dependencies() []string { return []string{"cache"} }

// Exports is the value auth's Init returns.
type Exports struct {
	module *Module
}

// IssueToken signs a new access token for subject, valid for the module's
// configured TTL, identified by tokenID for later revocation.
func (e Exports) IssueToken(subject, tokenID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    e.module.cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.module.cfg.TokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.module.cfg.SigningKey))
}

// VerifyToken parses and validates a token, rejecting it if its ID has been
// revoked via Revoke.
func (e Exports) VerifyToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(e.module.cfg.SigningKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if e.module.hasDenyli {
		revoked, err := e.module.denylist.Contains(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("auth: checking denylist: %w", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return claims, nil
}

// Revoke adds tokenID to the denylist until it would have expired anyway.
func (e Exports) Revoke(ctx context.Context, tokenID string) error {
	if !e.module.hasDenyli {
		return fmt.Errorf("auth: denylist unavailable")
	}
	return e.module.denylist.Add(ctx, tokenID, e.module.cfg.TokenTTL)
}

// HashSecret bcrypt-hashes a plaintext secret (password, API key) for
// storage.
func (e Exports) HashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifySecret compares a plaintext secret against its bcrypt hash.
func (e Exports) VerifySecret(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}

func (m *Module) Init(_ context.Context, deps loader.Dependencies) (any, error) {
	if m.cfg.SigningKey == "" {
		return nil, fmt.Errorf("auth: signing key is required")
	}

	if raw, ok := deps.Get("cache"); ok {
		if exports, ok := raw.(cache.Exports); ok {
			m.denylist = exports.TokenDenylist()
			m.hasDenyli = true
		}
	}

	return Exports{module: m}, nil
}

// HealthCheck always succeeds: token signing is stateless and needs no live
// connection once initialized.
func (m *Module) HealthCheck(_ context.Context) error { return nil }

func (m *Module) Shutdown(_ context.Context) error { return nil }
