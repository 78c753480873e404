package content

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher retrieves the text of a site-relative resource such as "posts/welcome.en.md".
type Fetcher interface {
	FetchText(ctx context.Context, path string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, path string) (string, error)

// FetchText calls f.
func (f FetcherFunc) FetchText(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// FSFetcher reads resources from a filesystem rooted at the site root.
type FSFetcher struct {
	fsys fs.FS
}

// NewFSFetcher returns a fetcher reading from fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

// FetchText reads path from the filesystem.
func (f *FSFetcher) FetchText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path = strings.TrimPrefix(path, "/")
	if !fs.ValidPath(path) {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrInvalid}
	}
	data, err := fs.ReadFile(f.fsys, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// HTTPFetcher reads resources from a static origin over HTTP.
type HTTPFetcher struct {
	baseURL string
	http    *http.Client
}

// NewHTTPFetcher returns a fetcher for baseURL. A zero timeout disables the client timeout.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchText issues a GET for path relative to the base URL. Any non-2xx status is an error.
func (f *HTTPFetcher) FetchText(ctx context.Context, path string) (string, error) {
	endpoint, err := url.JoinPath(f.baseURL, strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")
	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("content: %s returned status %d", endpoint, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
