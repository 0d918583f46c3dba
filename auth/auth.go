/*
Package auth models the authentication capability as an explicit
dependency instead of ambient global state.

PURPOSE:
  The rest of the engine only ever sees the Provider interface and the
  User in the request context. The JWT implementation here issues and
  validates HS256 tokens against a static user directory configured at
  startup; swapping in an external identity provider means implementing
  Provider, nothing else.

  The ledger core never touches any of this.

MIDDLEWARE:
  Middleware(provider) gates a chi route group. When the provider is
  nil the middleware is a no-op, which keeps development setups
  (no BOOKS_JWT_SECRET) open the same way the rest of the stack runs
  without auth by default.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// User is the authenticated principal.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Credential pairs a user with its password for the static directory.
type Credential struct {
	User     User
	Password string
}

// Provider is the authentication capability the engine depends on.
type Provider interface {
	// CurrentUser resolves a bearer token to a user, or nil when the
	// token is absent/invalid.
	CurrentUser(ctx context.Context, token string) (*User, error)

	// SignIn validates credentials and returns a bearer token.
	SignIn(ctx context.Context, email, password string) (string, error)

	// SignOut invalidates a session where the implementation supports it.
	SignOut(ctx context.Context, token string) error
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// =============================================================================
// JWT PROVIDER
// =============================================================================

// Claims is the token payload.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// JWTProvider implements Provider with HS256 tokens and a static user
// directory.
type JWTProvider struct {
	secret   []byte
	lifespan time.Duration
	users    map[string]Credential // keyed by email
}

func NewJWTProvider(secret string, lifespan time.Duration, users []Credential) *JWTProvider {
	directory := make(map[string]Credential, len(users))
	for _, u := range users {
		directory[u.User.Email] = u
	}
	return &JWTProvider{
		secret:   []byte(secret),
		lifespan: lifespan,
		users:    directory,
	}
}

func (p *JWTProvider) SignIn(_ context.Context, email, password string) (string, error) {
	cred, ok := p.users[email]
	if !ok || cred.Password != password {
		return "", ErrInvalidCredentials
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: cred.User.Email,
		Role:  cred.User.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   cred.User.ID,
			ExpiresAt: time.Now().Add(p.lifespan).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})

	return t.SignedString(p.secret)
}

func (p *JWTProvider) CurrentUser(_ context.Context, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &User{ID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

// SignOut is a no-op: tokens are stateless and expire on their own.
func (p *JWTProvider) SignOut(context.Context, string) error { return nil }

// =============================================================================
// MIDDLEWARE AND CONTEXT
// =============================================================================

type contextKey struct{}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(contextKey{}).(*User)
	return u
}

// Middleware gates requests behind bearer-token auth. A nil provider
// disables the gate entirely.
func Middleware(provider Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if provider == nil {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			user, err := provider.CurrentUser(r.Context(), token)
			if err != nil || user == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
