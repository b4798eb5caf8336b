// Package network provides the HTTP clients used to fetch remote recordings.
package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/castsync/castsync/constant"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/util"
	"github.com/spf13/viper"
)

// MaxBodySize bounds the size of a downloaded recording.
const MaxBodySize = 64 << 20

// ErrTooLarge is returned when a response exceeds MaxBodySize.
var ErrTooLarge = errors.New("response body too large")

// Client is the plain HTTP client shared across the application.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 16
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 5 * time.Second
	return t
}

// Fetch downloads url and returns its body. When network.fingerprint is enabled the
// request is made with a browser TLS fingerprint, falling back to HTTP/1.1 if HTTP/2 fails.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	if !viper.GetBool(key.NetworkFingerprint) {
		return fetchWith(ctx, Client, url)
	}

	body, err := fetchWith(ctx, fingerprintH2Client, url)
	if err == nil {
		return body, nil
	}

	var status *StatusError
	if errors.As(err, &status) || errors.Is(err, ErrTooLarge) || ctx.Err() != nil {
		return nil, err
	}

	return fetchWith(ctx, fingerprintH1Client, url)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

func fetchWith(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "application/x-asciicast, application/json;q=0.9, */*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if len(body) > MaxBodySize {
		return nil, ErrTooLarge
	}

	return body, nil
}
