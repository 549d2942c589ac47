package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weekly-menu/internal/user"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is returned for missing, expired or forged tokens.
var ErrUnauthenticated = errors.New("unauthenticated")

const issuer = "weekly-menu"

// Claims identify the caller of an authenticated request.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c Claims) UserID() string {
	return c.Subject
}

// UserStore loads and stores profiles.
type UserStore interface {
	Get(ctx context.Context, id string) (*user.User, error)
	Save(ctx context.Context, u *user.User) error
}

// Provider issues and verifies HS256 tokens.
type Provider struct {
	secret []byte
	users  UserStore
	now    func() time.Time
}

// NewProvider creates a Provider signing with secret.
func NewProvider(secret string, users UserStore) *Provider {
	return &Provider{secret: []byte(secret), users: users, now: time.Now}
}

// IssueToken signs a token for u valid for ttl.
func (p *Provider) IssueToken(u *user.User, ttl time.Duration) (string, error) {
	if u == nil || u.ID == "" {
		return "", errors.New("empty user id passed to IssueToken")
	}

	now := p.now()
	claims := Claims{
		Email: u.Email,
		Name:  u.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns its claims.
func (p *Provider) Verify(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}
	return claims, nil
}

// CurrentUser verifies tokenString and returns the caller's stored profile,
// creating it from the claims the first time the user is seen.
func (p *Provider) CurrentUser(ctx context.Context, tokenString string) (*user.User, error) {
	claims, err := p.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	return p.Resolve(ctx, claims.Subject, claims.Email, claims.Name)
}

// Resolve returns the profile for id, creating it when missing.
func (p *Provider) Resolve(ctx context.Context, id, email, name string) (*user.User, error) {
	u, err := p.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u != nil {
		return u, nil
	}

	u = &user.User{ID: id, Email: email, FullName: name, HouseholdSize: 1}
	if err := p.users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}
