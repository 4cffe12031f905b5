package domain

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Identity is the account snapshot attached to an authenticated request.
type Identity struct {
	AccountID int64  `json:"account_id"`
	FirstName string `json:"account_firstname"`
	LastName  string `json:"account_lastname"`
	Email     string `json:"account_email"`
	Role      Role   `json:"account_type"`
}

// AuthorizeAccountEdit returns ErrForbidden unless id owns the account or
// manages accounts as Admin or Owner.
func (id Identity) AuthorizeAccountEdit(accountID int64) error {
	if id.AccountID == accountID || id.Role.In(RoleAdmin, RoleOwner) {
		return nil
	}
	return ErrForbidden
}

// Session is the server-side record of an authenticated browsing context.
type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type identityContextKey struct{}

// ContextWithIdentity attaches the authenticated identity to ctx.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, &id)
}

// IdentityFromContext returns the identity attached by the auth gate, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	v, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok || v == nil {
		return Identity{}, false
	}
	return *v, true
}
