package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/alexploopy/todo-list/internal/pkg/auth"
)

const CookieName = "__session"

// Gateway maps request cookies to users and users to cookies. The cookie
// value is a signed token whose id must also be live in the Sessioner.
type Gateway struct {
	auth     auth.Auth
	sessions Sessioner
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

func NewGateway(a auth.Auth, sessions Sessioner, ttl time.Duration, secure bool) *Gateway {
	return &Gateway{
		auth:     a,
		sessions: sessions,
		ttl:      ttl,
		secure:   secure,
		now:      time.Now,
	}
}

func (g *Gateway) claims(ctx context.Context, r *http.Request) (auth.Claims, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return auth.Claims{}, false
	}

	claims, err := g.auth.ExtractClaims(cookie.Value)
	if err != nil {
		return auth.Claims{}, false
	}

	if !g.sessions.IsValid(ctx, claims.User.ID, claims.Id) {
		return auth.Claims{}, false
	}
	return claims, true
}

// ResolveIdentity returns the signed-in user, if any.
func (g *Gateway) ResolveIdentity(ctx context.Context, r *http.Request) (auth.User, bool) {
	claims, ok := g.claims(ctx, r)
	if !ok {
		return auth.User{}, false
	}
	return claims.User, true
}

func (g *Gateway) IssueCookie(ctx context.Context, w http.ResponseWriter, user auth.User) error {
	issuedAt := g.now().Truncate(time.Second)
	token, jti, err := g.auth.GetSignedToken(user, issuedAt, g.ttl)
	if err != nil {
		return fmt.Errorf("can't get token for user with id: %v, %w", user.ID, err)
	}

	if err := g.sessions.Add(ctx, user.ID, jti, issuedAt.Add(g.ttl)); err != nil {
		return fmt.Errorf("can't store session for user with id: %v, %w", user.ID, err)
	}

	http.SetCookie(w, g.cookie(token, int(g.ttl/time.Second)))
	return nil
}

// ClearCookie revokes the request's session, if it has one, and tells the
// client to drop the cookie.
func (g *Gateway) ClearCookie(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, g.cookie("", -1))

	claims, ok := g.claims(ctx, r)
	if !ok {
		return nil
	}
	if err := g.sessions.Remove(ctx, claims.User.ID, claims.Id); err != nil {
		return fmt.Errorf("can't revoke session for user with id: %v, %w", claims.User.ID, err)
	}
	return nil
}

func (g *Gateway) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
