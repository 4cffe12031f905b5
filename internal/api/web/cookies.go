// Package web holds the cookie plumbing shared by the auth gate and the
// handlers: the token cookie, the signed session id cookie and flash notices.
package web

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"
)

const (
	TokenCookie   = "jwt"
	SessionCookie = "sid"
	FlashCookie   = "flash"

	flashMaxAge = 60
)

// Jar writes and reads the app's cookies. Session ids and flash notices are
// HMAC-signed and encrypted with securecookie; the token carries its own signature.
type Jar struct {
	codec  *securecookie.SecureCookie
	secure bool

	// ttl bounds the session cookie; tokenTTL matches the token's own expiry.
	ttl      time.Duration
	tokenTTL time.Duration
}

// NewJar derives independent hash and block keys from secret. sessionTTL
// bounds the sid cookie and tokenTTL the jwt cookie. secure marks every
// cookie Secure (outside development).
func NewJar(secret []byte, sessionTTL, tokenTTL time.Duration, secure bool) *Jar {
	codec := securecookie.New(deriveKey(secret, hashKeyLabel), deriveKey(secret, blockKeyLabel))
	codec.MaxAge(int(sessionTTL.Seconds()))
	return &Jar{codec: codec, secure: secure, ttl: sessionTTL, tokenTTL: tokenTTL}
}

const (
	hashKeyLabel  = "cse-motors/cookie-hash"
	blockKeyLabel = "cse-motors/cookie-block"
)

// deriveKey returns a 32-byte key bound to label, so the HMAC and AES keys
// never share material.
func deriveKey(secret []byte, label string) []byte {
	h := sha256.New()
	h.Write([]byte(label))
	h.Write([]byte{0})
	h.Write(secret)
	return h.Sum(nil)
}

// SetToken stores the signed token cookie.
func (j *Jar) SetToken(c echo.Context, token string) {
	c.SetCookie(j.cookie(TokenCookie, token, j.tokenTTL))
}

// Token returns the raw token cookie value, if any.
func (j *Jar) Token(c echo.Context) (string, bool) {
	ck, err := c.Cookie(TokenCookie)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (j *Jar) ClearToken(c echo.Context) {
	c.SetCookie(j.expired(TokenCookie))
}

// SetSession stores the signed session id cookie.
func (j *Jar) SetSession(c echo.Context, sessionID string) error {
	encoded, err := j.codec.Encode(SessionCookie, sessionID)
	if err != nil {
		return err
	}
	c.SetCookie(j.cookie(SessionCookie, encoded, j.ttl))
	return nil
}

// SessionID decodes the session cookie. Tampered or expired values read as absent.
func (j *Jar) SessionID(c echo.Context) (string, bool) {
	ck, err := c.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	var id string
	if err := j.codec.Decode(SessionCookie, ck.Value, &id); err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (j *Jar) ClearSession(c echo.Context) {
	c.SetCookie(j.expired(SessionCookie))
}

func (j *Jar) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (j *Jar) expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
