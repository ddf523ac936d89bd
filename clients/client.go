package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-zonasi-client/internal/config"
	"github.com/jrsteele09/go-zonasi-client/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// RefreshPath is never retried on 401.
	RefreshPath = "/auth/refresh"

	maxResponseBody = 10 << 20
)

// Request is one call to a service, relative to its base URL. A non-nil Body is JSON encoded.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any

	// NoRetry passes a 401 straight through. Login and logout set it: neither
	// can be rescued by a refresh, and logout runs when a refresh has failed.
	NoRetry bool
}

// Response is a fully read backend response.
type Response struct {
	Status  int
	Header  http.Header
	Body    []byte
	Retried bool // the 401 retry was used
}

// Client talks to a single backend service.
type Client struct {
	service config.ServiceName
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter

	mu      sync.RWMutex
	renewer Renewer
}

func (c *Client) Service() config.ServiceName {
	return c.service
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) setRenewer(r Renewer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renewer = r
}

func (c *Client) getRenewer() Renewer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.renewer
}

// Do sends req. A 401 is answered by waiting for a renewed token and sending
// the request once more; any other failure, or a second 401, is returned as
// an *errors.APIError. Transport errors are returned unchanged.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("[%s] request is required", c.service)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("[%s] encode %s %s: %w", c.service, method, req.Path, err)
		}
		payload = b
	}

	requestID := uuid.NewString()
	logger := log.With().
		Str("service", string(c.service)).
		Str("request_id", requestID).
		Str("method", method).
		Str("path", req.Path).
		Logger()

	bearer, _ := c.tokens.AccessToken()
	resp, err := c.send(ctx, method, req, payload, bearer, requestID)
	if err != nil {
		return nil, err
	}

	state := nextState(stateSent, resp.Status, retryable(req))
	if state == stateRetryMarked {
		resp, state, err = c.retry(ctx, method, req, payload, requestID, logger)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug().Int("status", resp.Status).Str("state", state.String()).Msg("Request settled")
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, normalizeError(c.service, resp)
	}
	return resp, nil
}

// retry waits for a renewed token and re-issues the request with it.
func (c *Client) retry(ctx context.Context, method string, req *Request, payload []byte, requestID string, logger zerolog.Logger) (*Response, retryState, error) {
	renewer := c.getRenewer()
	if renewer == nil {
		logger.Debug().Msg("Unauthorized with no renewer, passing through")
		return nil, stateFailed, normalizeError(c.service, &Response{Status: http.StatusUnauthorized})
	}

	logger.Debug().Msg("Unauthorized, waiting for token refresh")
	raw, err := renewer.Renew(ctx)
	if err != nil {
		logger.Warn().Err(err).Str("state", stateFailed.String()).Msg("Refresh failed, request not retried")
		return nil, stateFailed, err
	}

	resp, err := c.send(ctx, method, req, payload, token.NewBearer(raw), requestID)
	if err != nil {
		return nil, stateFailed, err
	}
	resp.Retried = true
	return resp, nextState(stateResent, resp.Status, retryable(req)), nil
}

func (c *Client) send(ctx context.Context, method string, req *Request, payload []byte, bearer *oauth2.Token, requestID string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("[%s] rate limit: %w", c.service, err)
		}
	}

	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("[%s] build %s %s: %w", c.service, method, req.Path, err)
	}
	for k, v := range req.Header {
		httpReq.Header[k] = append([]string(nil), v...)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if bearer != nil && bearer.AccessToken != "" {
		bearer.SetAuthHeader(httpReq)
	}

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("[%s] %s %s: %w", c.service, method, req.Path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("[%s] read %s %s: %w", c.service, method, req.Path, err)
	}
	return &Response{Status: res.StatusCode, Header: res.Header, Body: data}, nil
}

func retryable(req *Request) bool {
	return !req.NoRetry && !isRefreshPath(req.Path)
}

func isRefreshPath(p string) bool {
	return strings.Contains("/"+strings.TrimPrefix(p, "/"), RefreshPath)
}
