// Package client fetches pictures from a running camfs device.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sagarc03/camfs"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client talks to the file server of one device.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout. A client passed through
// WithHTTPClient is copied first and left untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}
}

// New creates a Client for the server at endpoint, e.g. "http://192.168.1.50:81".
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("new client: empty endpoint: %w", camfs.ErrInvalidInput)
	}

	c := &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Index returns the HTML of the index page.
func (c *Client) Index(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/")
	if err != nil {
		return "", fmt.Errorf("index: %w", err)
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("index: read body: %w", err)
	}
	return string(data), nil
}

// Download streams the file at path to w and returns the number of bytes
// copied. A 404 from the server is reported as camfs.ErrNotFound.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	storePath, err := camfs.StorePath(path)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	body, err := c.get(ctx, camfs.ViewURL(storePath))
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", storePath, err)
	}
	defer func() { _ = body.Close() }()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", storePath, err)
	}
	return n, nil
}

// DownloadFile saves the file at path to localPath, creating parent
// directories. An empty localPath means the base name of path.
func (c *Client) DownloadFile(ctx context.Context, path, localPath string) (string, int64, error) {
	if localPath == "" {
		localPath = filepath.Base(path)
	}

	if dir := filepath.Dir(localPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", 0, fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(filepath.Clean(localPath))
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}

	n, err := c.Download(ctx, path, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(localPath)
		return "", 0, err
	}
	return localPath, n, nil
}

func (c *Client) get(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+uri, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, camfs.ErrNotFound
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
}
