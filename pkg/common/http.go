package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrResponseTooLarge is returned when a download exceeds the configured limit.
var ErrResponseTooLarge = errors.New("response too large")

// ReadAllFromURL reads at most `maxSize` bytes from the URL. Larger bodies are rejected rather than truncated, so
// a page that streams forever can't exhaust memory.
func ReadAllFromURL(ctx context.Context, url string, maxSize int64) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, res.StatusCode)
	}
	content, err := io.ReadAll(io.LimitReader(res.Body, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > maxSize {
		return nil, ErrResponseTooLarge
	}
	return content, nil
}
