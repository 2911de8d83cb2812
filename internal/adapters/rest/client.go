// Package rest talks to the hosted backend-as-a-service: the relational
// store under /rest/v1 and the identity service under /auth/v1.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/example/crm/internal/logging"
)

const (
	restPrefix = "/rest/v1/"
	authPrefix = "/auth/v1/"
)

type doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is an HTTP client for the backend.
type Client struct {
	addr     *url.URL
	apiKey   string
	doer     doer
	tokenFn  func() string
	recorder Recorder
}

// New creates a Client. WithAddr and WithAPIKey are required.
func New(opts ...ClientOptFn) (*Client, error) {
	opt := clientOpt{}
	for _, o := range opts {
		if err := o(&opt); err != nil {
			return nil, err
		}
	}

	if opt.addr == "" {
		return nil, errors.New("backend address is required")
	}
	if opt.apiKey == "" {
		return nil, errors.New("backend api key is required")
	}
	u, err := url.Parse(strings.TrimRight(opt.addr, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend address %q: scheme must be http or https", opt.addr)
	}

	c := &Client{
		addr:     u,
		apiKey:   opt.apiKey,
		doer:     opt.doer,
		tokenFn:  opt.tokenFn,
		recorder: opt.recorder,
	}
	if c.doer == nil {
		c.doer = defaultHTTPClient(u.Scheme, opt.insecureSkipVerify, opt.timeout)
	}
	return c, nil
}

// request describes one backend call.
type request struct {
	op      string
	method  string
	path    string
	query   url.Values
	headers http.Header
	token   string // overrides the token source when set
	body    any
}

// response holds what callers read after a successful call.
type response struct {
	header http.Header
	body   []byte
}

func (c *Client) bearer(override string) string {
	if override != "" {
		return override
	}
	if c.tokenFn != nil {
		if t := c.tokenFn(); t != "" {
			return t
		}
	}
	return c.apiKey
}

func (c *Client) do(ctx context.Context, r request) (resp *response, err error) {
	if c.recorder != nil {
		rec := c.recorder.Record(r.op)
		defer func() { err = rec(err) }()
	}

	u := *c.addr
	u.Path = u.Path + r.path
	u.RawQuery = r.query.Encode()

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vs := range r.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer(r.token))
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	log := logging.FromContext(ctx)
	res, err := c.doer.Do(req)
	if err != nil {
		log.Debug("backend request failed", zap.String("op", r.op), zap.Error(err))
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer res.Body.Close()
	log.Debug("backend request",
		zap.String("op", r.op),
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", res.StatusCode),
	)

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, parseError(res.StatusCode, data)
	}
	return &response{header: res.Header, body: data}, nil
}

func (r *response) decode(v any) error {
	if v == nil || len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}
