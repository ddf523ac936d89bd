package clients

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-zonasi-client/internal/config"
	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
)

// errorBody covers both error shapes the services return:
// {"message": "...", "errors": ...} and {"error": {"message": "..."}}.
type errorBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func normalizeError(service config.ServiceName, resp *Response) error {
	apiErr := &apperrors.APIError{Status: resp.Status, Service: string(service)}
	if resp.Status >= http.StatusInternalServerError {
		apiErr.Message = apperrors.ServerProblemMessage
		return apiErr
	}

	var b errorBody
	if len(bytes.TrimSpace(resp.Body)) > 0 && json.Unmarshal(resp.Body, &b) == nil {
		switch {
		case hasErrors(b.Errors) && b.Message != "":
			apiErr.Message = b.Message
		case b.Error != nil && b.Error.Message != "":
			apiErr.Message = b.Error.Message
		case b.Message != "":
			apiErr.Message = b.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.Status)
	}
	return apiErr
}

func hasErrors(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
