package rest

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// ClientOptFn are options to set different parameters on the Client.
type ClientOptFn func(*clientOpt) error

type clientOpt struct {
	addr               string
	apiKey             string
	insecureSkipVerify bool
	timeout            time.Duration
	doer               doer
	tokenFn            func() string
	recorder           Recorder
}

// Recorder records the outcome of every backend call. *metrics.REDClient
// satisfies it.
type Recorder interface {
	Record(op string) func(error) error
}

// WithAddr sets the backend project URL.
func WithAddr(addr string) ClientOptFn {
	return func(opt *clientOpt) error {
		opt.addr = addr
		return nil
	}
}

// WithAPIKey sets the anonymous key sent as apikey on every request. It is
// also the bearer token when no session token is available.
func WithAPIKey(key string) ClientOptFn {
	return func(opt *clientOpt) error {
		opt.apiKey = key
		return nil
	}
}

// WithTokenSource sets the function returning the current session access
// token. An empty token falls back to the api key.
func WithTokenSource(fn func() string) ClientOptFn {
	return func(opt *clientOpt) error {
		opt.tokenFn = fn
		return nil
	}
}

// WithHTTPClient sets the raw http client.
func WithHTTPClient(c *http.Client) ClientOptFn {
	return func(opt *clientOpt) error {
		opt.doer = c
		return nil
	}
}

func withDoer(d doer) ClientOptFn {
	return func(opt *clientOpt) error {
		opt.doer = d
		return nil
	}
}

// WithInsecureSkipVerify disables TLS verification on the default transport.
func WithInsecureSkipVerify(b bool) ClientOptFn {
	return func(opt *clientOpt) error {
		opt.insecureSkipVerify = b
		return nil
	}
}

// WithTimeout bounds every request made with the default http client.
func WithTimeout(d time.Duration) ClientOptFn {
	return func(opt *clientOpt) error {
		opt.timeout = d
		return nil
	}
}

// WithRecorder sets the metrics recorder for backend calls.
func WithRecorder(r Recorder) ClientOptFn {
	return func(opt *clientOpt) error {
		opt.recorder = r
		return nil
	}
}

func defaultHTTPClient(scheme string, insecure bool, timeout time.Duration) *http.Client {
	tr := http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if scheme == "https" && insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Transport: &tr,
		Timeout:   timeout,
	}
}
