// Package auth implements the demo login. Any email and password pair is accepted;
// the token is derived from the email so the same user always gets the same cart.
package auth

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hyperjump/studentgear/internal/models"
)

// TokenPrefix starts every demo token.
const TokenPrefix = "demo-token-"

// AnonymousToken owns the cart of requests that carry no token.
const AnonymousToken = "anonymous"

// CartCreator is the part of storage login needs.
type CartCreator interface {
	CreateCart(ctx context.Context, token string) error
}

// Session is the result of a successful login.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Service performs demo logins.
type Service struct {
	carts CartCreator
}

// NewService creates a login service that opens a cart for every session.
func NewService(carts CartCreator) *Service {
	return &Service{carts: carts}
}

// Login returns a session for email. Both email and password must be non-empty.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, models.ErrMissingCredentials
	}
	token := Token(email)
	if err := s.carts.CreateCart(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &Session{
		Token: token,
		User:  models.User{Name: userName(email), Email: email},
	}, nil
}

// Token derives the demo token for email.
func Token(email string) string {
	return TokenPrefix + hex.EncodeToString([]byte(email))
}

func userName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
