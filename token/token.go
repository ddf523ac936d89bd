// Package token decodes the access tokens issued by the auth service.
//
// The client never verifies the signature: the expiry claim is read only to
// schedule proactive refreshes, and the backend stays authoritative.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"golang.org/x/oauth2"
)

const bearerType = "Bearer"

// Expiry returns the exp claim of rawToken without verifying its signature.
func Expiry(rawToken string) (time.Time, error) {
	if strings.TrimSpace(rawToken) == "" {
		return time.Time{}, apperrors.ErrInvalidToken
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, apperrors.Wrapf(apperrors.ErrInvalidToken, "failed to parse token: %v", err)
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, apperrors.Wrapf(apperrors.ErrInvalidToken, "failed to read exp claim: %v", err)
	}
	if exp == nil {
		return time.Time{}, apperrors.ErrMissingExpiry
	}
	return exp.Time, nil
}

// NewBearer wraps rawToken as an oauth2 bearer token. A token without a
// readable expiry is still usable; its Expiry is left zero.
func NewBearer(rawToken string) *oauth2.Token {
	t := &oauth2.Token{AccessToken: rawToken, TokenType: bearerType}
	if exp, err := Expiry(rawToken); err == nil {
		t.Expiry = exp
	}
	return t
}
