package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusError reports a non-200 response.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: bad status: %s", e.URL, e.Status)
}

// API fetches pages from the card database with a fixed User-Agent.
type API struct {
	client    *http.Client
	userAgent string
}

func NewAPI(userAgent string, timeout time.Duration) *API {
	return &API{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// NewAPIWithClient is used by tests to inject an httptest client.
func NewAPIWithClient(client *http.Client, userAgent string) *API {
	return &API{client: client, userAgent: userAgent}
}

// Get returns the response body of a successful GET. The caller closes it.
func (a *API) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{URL: url, Status: resp.Status, Code: resp.StatusCode}
	}

	return resp.Body, nil
}
