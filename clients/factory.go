// Package clients builds one HTTP client per backend service. Every client
// injects the session's bearer token and recovers from a 401 by waiting for a
// token refresh and re-issuing the request once.
package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-zonasi-client/internal/config"
	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Config is the part of the application configuration the factory reads.
type Config interface {
	config.ServicesConfig
	config.HTTPConfig
}

// TokenSource exposes the current bearer token. *sessions.State implements it.
type TokenSource interface {
	AccessToken() (*oauth2.Token, bool)
}

// Renewer returns a renewed access token, joining a refresh already underway
// instead of starting a second one.
type Renewer interface {
	Renew(ctx context.Context) (string, error)
}

// RenewerFunc adapts a function to Renewer.
type RenewerFunc func(ctx context.Context) (string, error)

func (f RenewerFunc) Renew(ctx context.Context) (string, error) {
	return f(ctx)
}

// Factory hands out service clients sharing one transport and cookie jar.
type Factory struct {
	urls       config.ServiceURLs
	tokens     TokenSource
	renewer    Renewer
	httpClient *http.Client
	rps        float64
	burst      int

	mu      sync.Mutex
	clients map[config.ServiceName]*Client
}

// Option defines a function type to modify the Factory instance.
type Option func(*Factory)

// WithHTTPClient replaces the shared HTTP client (primarily for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Factory) {
		if c != nil {
			f.httpClient = c
		}
	}
}

// NewFactory resolves the service URL map from cfg. A nil renewer disables
// the 401 retry; it can be supplied later with SetRenewer.
func NewFactory(cfg Config, tokens TokenSource, renewer Renewer, options ...Option) (*Factory, error) {
	if cfg == nil {
		return nil, errors.New("[NewFactory] config is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewFactory] token source is required")
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("[NewFactory] cookie jar: %w", err)
	}

	f := &Factory{
		urls:    cfg.GetServiceURLs(),
		tokens:  tokens,
		renewer: renewer,
		httpClient: &http.Client{
			Timeout: cfg.GetRequestTimeout(),
			Jar:     jar,
		},
		rps:     cfg.GetRequestsPerSecond(),
		burst:   cfg.GetRequestBurst(),
		clients: make(map[config.ServiceName]*Client),
	}
	for _, opt := range options {
		opt(f)
	}
	return f, nil
}

// SetRenewer wires the refresh path into clients created before or after the call.
func (f *Factory) SetRenewer(r Renewer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renewer = r
	for _, c := range f.clients {
		c.setRenewer(r)
	}
}

// New returns the client bound to service. Each service gets exactly one
// instance. An unknown service is a configuration error.
func (f *Factory) New(service config.ServiceName) (*Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[service]; ok {
		return c, nil
	}

	base, ok := f.urls.Lookup(service)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownService, service)
	}
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q for service %q", apperrors.ErrMissingConfig, base, service)
	}

	var limiter *rate.Limiter
	if f.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(f.rps), max(f.burst, 1))
	}

	c := &Client{
		service: service,
		baseURL: baseURL,
		http:    f.httpClient,
		tokens:  f.tokens,
		limiter: limiter,
	}
	c.setRenewer(f.renewer)
	f.clients[service] = c

	log.Debug().Str("service", string(service)).Str("base_url", base).Msg("Created service client")
	return c, nil
}

// MustNew is New for service names fixed at compile time. It panics on a configuration error.
func (f *Factory) MustNew(service config.ServiceName) *Client {
	c, err := f.New(service)
	if err != nil {
		panic(err)
	}
	return c
}
