// Package token issues and verifies the HS256 JWT carried in the jwt cookie.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/csemotors/dealership/internal/core/domain"
)

var (
	ErrExpired          = errors.New("token expired")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrMalformed        = errors.New("token malformed")
)

const defaultTTL = time.Hour

// Claims is the JWT payload: the identity snapshot plus registered claims.
type Claims struct {
	AccountID int64       `json:"account_id"`
	FirstName string      `json:"account_firstname"`
	LastName  string      `json:"account_lastname"`
	Email     string      `json:"account_email"`
	Role      domain.Role `json:"account_type"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime applied to newly issued tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a token for id that expires after the manager's TTL.
func (m *Manager) Issue(id domain.Identity) (string, error) {
	now := m.now()
	claims := Claims{
		AccountID: id.AccountID,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Email:     id.Email,
		Role:      id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.AccountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the identity.
func (m *Manager) Verify(raw string) (domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidSignature
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Identity{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return domain.Identity{}, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSignature):
			return domain.Identity{}, ErrInvalidSignature
		default:
			return domain.Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if !claims.Role.Valid() {
		return domain.Identity{}, ErrMalformed
	}

	return domain.Identity{
		AccountID: claims.AccountID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}
