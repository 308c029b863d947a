package engine

import (
	"fmt"
	"io"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
)

// Re-export stealth types and functions for engine consumers.
type BrowserClient = stealth.BrowserClient

func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }
func RandomUserAgent() string          { return stealth.RandomUserAgent() }

// NewBrowserClient builds a Chrome-fingerprinted client. A non-empty
// webshareKey routes requests through the Webshare proxy pool.
func NewBrowserClient(timeoutSec int, webshareKey string) (*BrowserClient, error) {
	opts := []stealth.ClientOption{stealth.WithTimeout(timeoutSec)}
	if webshareKey != "" {
		pool, err := proxypool.NewWebshare(webshareKey)
		if err != nil {
			return nil, fmt.Errorf("proxy pool: %w", err)
		}
		opts = append(opts, stealth.WithProxyPool(pool))
	}
	return stealth.NewClient(opts...)
}

// BrowserGet fetches url through bc with Chrome headers and returns the body.
// Non-2xx statuses become *StatusError.
func BrowserGet(bc *BrowserClient, url string, extra map[string]string) ([]byte, error) {
	headers := ChromeHeaders()
	for k, v := range extra {
		headers[k] = v
	}
	data, _, status, err := bc.Do("GET", url, headers, (io.Reader)(nil))
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &StatusError{StatusCode: status}
	}
	return data, nil
}
