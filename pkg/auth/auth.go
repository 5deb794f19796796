package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

var ErrNoAuth = errors.New("no auth in context")

type Profile struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
}

type Claims struct {
	Profile Profile `json:"profile"`
	jwt.RegisteredClaims
}

type ctxKey struct{}

func SetAuthContext(ctx context.Context, userID int, email string) context.Context {
	return context.WithValue(ctx, ctxKey{}, Profile{UserID: userID, Email: email})
}

// UserID returns the authenticated numeric user id from the request context.
func UserID(ctx context.Context) (int, error) {
	p, ok := ctx.Value(ctxKey{}).(Profile)
	if !ok {
		return 0, ErrNoAuth
	}
	return p.UserID, nil
}
