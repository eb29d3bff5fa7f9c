package tasks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize bounds how much of a remote document is read into memory.
const maxResponseSize = 20 << 20

type fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func newFetcher(httpClient *http.Client, userAgent string, timeoutSeconds int) fetcher {
	return fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    time.Duration(timeoutSeconds) * time.Second,
	}
}

// fetch GETs url and returns the body with its content type. An empty
// accept list allows any content type.
func (f fetcher) fetch(ctx context.Context, url string, accept ...string) ([]byte, string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if len(accept) > 0 && !matchesContentType(contentType, accept) {
		return nil, contentType, fmt.Errorf("unexpected content type: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, contentType, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, contentType, nil
}

func matchesContentType(contentType string, accept []string) bool {
	contentType = strings.ToLower(contentType)
	for _, a := range accept {
		if strings.Contains(contentType, a) {
			return true
		}
	}
	return false
}
