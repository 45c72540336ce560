package client_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/camfs"
	"github.com/sagarc03/camfs/client"
	camfshttp "github.com/sagarc03/camfs/http"
	"github.com/sagarc03/camfs/internal/memstore"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memstore.New().
		Add("/a.jpg", []byte("jpeg-a")).
		Add("/day1/b.jpg", []byte("jpeg-b"))
	h := camfshttp.NewHandler(&camfshttp.HandlerConfig{}, camfs.NewCatalog(store))
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_EmptyEndpoint(t *testing.T) {
	_, err := client.New("")

	assert.ErrorIs(t, err, camfs.ErrInvalidInput)
}

func TestClient_Index(t *testing.T) {
	srv := newServer(t)
	c, err := client.New(srv.URL + "/")
	require.NoError(t, err)

	html, err := c.Index(context.Background())
	require.NoError(t, err)

	assert.Contains(t, html, `href="/view/a.jpg"`)
}

func TestClient_Download(t *testing.T) {
	srv := newServer(t)
	c, err := client.New(srv.URL, client.WithTimeout(5*time.Second))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), "a.jpg", &buf)

	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, "jpeg-a", buf.String())
}

func TestClient_WithTimeout_KeepsCallerClient(t *testing.T) {
	srv := newServer(t)
	shared := srv.Client()
	shared.Timeout = time.Minute

	c, err := client.New(srv.URL, client.WithHTTPClient(shared), client.WithTimeout(5*time.Second))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = c.Download(context.Background(), "a.jpg", &buf)

	require.NoError(t, err)
	assert.Equal(t, "jpeg-a", buf.String())
	assert.Equal(t, time.Minute, shared.Timeout)
}

func TestClient_Download_NotFound(t *testing.T) {
	srv := newServer(t)
	c, err := client.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Download(context.Background(), "/missing.jpg", &bytes.Buffer{})

	assert.ErrorIs(t, err, camfs.ErrNotFound)
}

func TestClient_Download_InvalidPath(t *testing.T) {
	c, err := client.New("http://127.0.0.1:1")
	require.NoError(t, err)

	_, err = c.Download(context.Background(), "../etc/passwd", &bytes.Buffer{})

	assert.ErrorIs(t, err, camfs.ErrInvalidInput)
}

func TestClient_Download_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "dispatcher closed", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := client.New(srv.URL, client.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.Download(context.Background(), "/a.jpg", &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "dispatcher closed")
}

func TestClient_DownloadFile(t *testing.T) {
	srv := newServer(t)
	c, err := client.New(srv.URL)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out", "b.jpg")
	local, n, err := c.DownloadFile(context.Background(), "/day1/b.jpg", dest)
	require.NoError(t, err)

	assert.Equal(t, dest, local)
	assert.Equal(t, int64(6), n)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-b", string(data))
}

func TestClient_DownloadFile_NotFoundLeavesNoFile(t *testing.T) {
	srv := newServer(t)
	c, err := client.New(srv.URL)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "missing.jpg")
	_, _, err = c.DownloadFile(context.Background(), "/missing.jpg", dest)

	require.ErrorIs(t, err, camfs.ErrNotFound)
	assert.NoFileExists(t, dest)
}
