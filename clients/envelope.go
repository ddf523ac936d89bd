package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/jrsteele09/go-zonasi-client/internal/errors"
)

// Meta is the pagination block of list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages,omitempty"`
}

// Envelope is the {data, meta?} body every domain endpoint returns.
type Envelope[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Decode reads resp as an envelope. An empty body, such as a 204, yields a zero envelope.
func Decode[T any](resp *Response) (*Envelope[T], error) {
	env := &Envelope[T]{}
	if resp == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(resp.Body, env); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBadPayload, err)
	}
	return env, nil
}

func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (*Envelope[T], error) {
	return call[T](ctx, c, &Request{Method: http.MethodGet, Path: path, Query: query})
}

func Post[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	return call[T](ctx, c, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func Put[T any](ctx context.Context, c *Client, path string, query url.Values, body any) (*Envelope[T], error) {
	return call[T](ctx, c, &Request{Method: http.MethodPut, Path: path, Query: query, Body: body})
}

func Patch[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	return call[T](ctx, c, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

func Delete[T any](ctx context.Context, c *Client, path string) (*Envelope[T], error) {
	return call[T](ctx, c, &Request{Method: http.MethodDelete, Path: path})
}

func call[T any](ctx context.Context, c *Client, req *Request) (*Envelope[T], error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	return Decode[T](resp)
}

// PageQuery builds the page and limit parameters of list endpoints. Zero
// values are left out so the backend applies its defaults; filters pass through.
func PageQuery(page, limit int, filters url.Values) url.Values {
	q := url.Values{}
	for k, v := range filters {
		q[k] = append([]string(nil), v...)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// IDPath appends ids to base as path segments.
func IDPath(base string, ids ...int64) string {
	for _, id := range ids {
		base += "/" + strconv.FormatInt(id, 10)
	}
	return base
}
