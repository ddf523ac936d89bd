package auth

import (
	"strings"
	"testing"

	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestValidateCredentials(t *testing.T) {
	require.NoError(t, validateCredentials("siswa01", "secret"))
	require.ErrorIs(t, validateCredentials("", "secret"), MissingCredentialsErr)
	require.ErrorIs(t, validateCredentials("  ", "secret"), MissingCredentialsErr)
	require.ErrorIs(t, validateCredentials("siswa01", ""), MissingCredentialsErr)
	require.ErrorIs(t, validateCredentials(strings.Repeat("a", 300), "secret"), apperrors.ErrInvalidCredentials)
}
