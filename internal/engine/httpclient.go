package engine

import (
	"net/http"
	"time"
)

// User-Agent strings used across HTTP clients.
const (
	UserAgentResearch = "OpenCode-Research-Agent/1.0"
	UserAgentChrome   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// NewHTTPClient returns a pooled client with the given overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// clientWithTimeout returns cfg.HTTPClient when its timeout already matches,
// otherwise a shallow copy with the requested timeout on the same transport.
func clientWithTimeout(timeout time.Duration) *http.Client {
	base := cfg.HTTPClient
	if base == nil {
		return NewHTTPClient(timeout)
	}
	if timeout <= 0 || base.Timeout == timeout {
		return base
	}
	c := *base
	c.Timeout = timeout
	return &c
}
