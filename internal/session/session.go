// Package session issues and verifies browser sessions. A session is an
// EdDSA-signed JWT carrying the internal user id, stored alongside a
// companion user-id cookie; both are encrypted at rest with securecookie.
package session

import (
	"crypto/ed25519"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
)

const (
	TokenCookie  = "auth_token"
	UserIDCookie = "user_id"

	TTL = 30 * 24 * time.Hour
)

type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type Manager struct {
	codec *securecookie.SecureCookie
	pub   ed25519.PublicKey
	priv  ed25519.PrivateKey
}

func NewManager(hashKey, blockKey []byte, pub ed25519.PublicKey, priv ed25519.PrivateKey) *Manager {
	return &Manager{
		codec: securecookie.New(hashKey, blockKey),
		pub:   pub,
		priv:  priv,
	}
}

// Issue signs a fresh 30-day token for userID and writes the cookie pair.
func (m *Manager) Issue(w http.ResponseWriter, userID int64) error {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(m.priv)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	if err := m.setCookie(w, TokenCookie, token); err != nil {
		return err
	}
	return m.setCookie(w, UserIDCookie, strconv.FormatInt(userID, 10))
}

// Verify validates the cookie pair and returns the token's user id. Only
// the signed token's claim is trusted for identity; the companion cookie
// must merely be present and decodable.
func (m *Manager) Verify(r *http.Request) (int64, bool) {
	raw, err := r.Cookie(TokenCookie)
	if err != nil {
		return 0, false
	}
	var token string
	if err := m.codec.Decode(TokenCookie, raw.Value, &token); err != nil {
		return 0, false
	}

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.pub, nil
	}, jwt.WithValidMethods([]string{"EdDSA"}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, false
	}

	idRaw, err := r.Cookie(UserIDCookie)
	if err != nil {
		return 0, false
	}
	var id string
	if err := m.codec.Decode(UserIDCookie, idRaw.Value, &id); err != nil {
		return 0, false
	}

	return claims.UserID, true
}

// Clear overwrites both cookies with a backdated expired value. There is
// no server-side revocation; this only removes them from the browser.
func (m *Manager) Clear(w http.ResponseWriter) {
	for _, name := range []string{TokenCookie, UserIDCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "deleted",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Now().Add(-365 * 24 * time.Hour),
		})
	}
}

func (m *Manager) setCookie(w http.ResponseWriter, name, value string) error {
	encoded, err := m.codec.Encode(name, value)
	if err != nil {
		return fmt.Errorf("encode %s cookie: %w", name, err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(TTL.Seconds()),
	})
	return nil
}
