package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Creator signs and verifies HS256 access tokens. It stands in for the auth
// service when the client runs against a local backend.
type Creator struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewCreator creates a new JWT creator
func NewCreator(secret []byte, issuer string, expiry time.Duration) *Creator {
	return &Creator{
		secret: secret,
		expiry: expiry,
		issuer: issuer,
	}
}

// CreateAccessToken signs an access token for the given user id and role.
func (c *Creator) CreateAccessToken(userID int64, role string) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss":  c.issuer,
		"sub":  fmt.Sprintf("%d", userID),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(c.expiry).Unix(),
		"jti":  uuid.New().String(),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Verify validates the signature and expiry of rawToken and returns its subject.
func (c *Creator) Verify(rawToken string) (string, error) {
	tok, err := jwtlib.Parse(rawToken, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwtlib.WithTimeFunc(NowTimeFunc), jwtlib.WithIssuer(c.issuer))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("invalid subject: %w", err)
	}
	return sub, nil
}
