package auth

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
)

const maxCredentialLength = 256

// validateCredentials rejects login input that can never succeed before it reaches the network.
func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return MissingCredentialsErr
	}
	if utf8.RuneCountInString(username) > maxCredentialLength || utf8.RuneCountInString(password) > maxCredentialLength {
		return fmt.Errorf("%w: longer than %d characters", apperrors.ErrInvalidCredentials, maxCredentialLength)
	}
	return nil
}
