package errors_test

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Unwrap(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusInternalServerError, apperrors.ErrServer},
		{http.StatusBadGateway, apperrors.ErrServer},
		{http.StatusUnauthorized, apperrors.ErrUnauthorized},
		{http.StatusForbidden, apperrors.ErrForbidden},
		{http.StatusNotFound, apperrors.ErrNotFound},
		{http.StatusUnprocessableEntity, apperrors.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			err := fmt.Errorf("call: %w", &apperrors.APIError{Status: tc.status, Message: "m"})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRefreshError(t *testing.T) {
	err := &apperrors.RefreshError{Err: io.ErrUnexpectedEOF}
	require.ErrorIs(t, err, apperrors.ErrRefreshFailed)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.Contains(t, err.Error(), "token refresh failed")

	require.Equal(t, "token refresh failed", (&apperrors.RefreshError{}).Error())
}

func TestMessage(t *testing.T) {
	require.Equal(t, "", apperrors.Message(nil))
	require.Equal(t, "kuota penuh", apperrors.Message(apperrors.Wrapf(&apperrors.APIError{Status: 400, Message: "kuota penuh"}, "submit")))
	require.Equal(t, "boom", apperrors.Message(fmt.Errorf("boom")))
}

func TestWrapf(t *testing.T) {
	require.NoError(t, apperrors.Wrapf(nil, "ignored"))
	err := apperrors.Wrapf(apperrors.ErrNotFound, "lookup %s", "x")
	require.EqualError(t, err, "lookup x: not found")
	require.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
