package http

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sagarc03/camfs"
)

// Catalog is what the routes read from.
type Catalog interface {
	List(ctx context.Context, maxFiles int) ([]camfs.FileEntry, error)
	Open(ctx context.Context, path string) (camfs.File, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	MaxNumFiles int
	CORS        CORSConfig
	Logger      *slog.Logger
}

// Handler provides the index and view routes.
type Handler struct {
	config      HandlerConfig
	catalog     Catalog
	maxNumFiles atomic.Int64
}

// NewHandler creates a new Handler with the given configuration and catalog.
// A non-positive MaxNumFiles means camfs.DefaultMaxNumFiles.
func NewHandler(config *HandlerConfig, catalog Catalog) *Handler {
	h := &Handler{
		config:  *config,
		catalog: catalog,
	}
	maxNumFiles := config.MaxNumFiles
	if maxNumFiles <= 0 {
		maxNumFiles = camfs.DefaultMaxNumFiles
	}
	h.maxNumFiles.Store(int64(maxNumFiles))
	return h
}

// SetMaxNumFiles changes the listing cap for subsequent index requests.
func (h *Handler) SetMaxNumFiles(n int) {
	h.maxNumFiles.Store(int64(n))
}

// MaxNumFiles returns the current listing cap.
func (h *Handler) MaxNumFiles() int {
	return int(h.maxNumFiles.Load())
}

// Router returns the route table: GET / for the index and a fallback for
// everything else, which serves /view/<path> and answers 404 otherwise.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(h.config.Logger))

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/", h.handleIndex)
	r.NotFound(h.handleView)
	r.MethodNotAllowed(h.handleView)

	return r
}

var (
	//go:embed index.gohtml
	indexTemplateText string

	indexTemplate = template.Must(template.New("index").Parse(strings.TrimSpace(indexTemplateText)))
)

type indexRow struct {
	Index int
	URL   string
	Name  string
	Size  string
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.List(r.Context(), h.MaxNumFiles())
	if err != nil {
		slog.Warn("listing incomplete", "err", err, "entries", len(entries))
	}

	rows := make([]indexRow, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, indexRow{
			Index: i + 1,
			URL:   camfs.ViewURL(e.Path),
			Name:  e.Name(),
			Size:  camfs.FormatBytes(uint64(max(e.Size, 0))),
		})
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, rows); err != nil {
		slog.Error("failed to render index", "err", err)
		send(w, http.StatusInternalServerError, "text/plain; charset=utf-8", "Error rendering index")
		return
	}

	send(w, http.StatusOK, "text/html; charset=utf-8", buf.String())
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Path

	path, ok := camfs.ViewPath(uri)
	if !ok {
		slog.Debug("no route", "uri", uri, "err", camfs.ErrRouteMismatch)
		writeNotFound(w, uri)
		return
	}

	slog.Debug("view file", "path", path)

	f, err := h.catalog.Open(r.Context(), path)
	if err != nil {
		if !errors.Is(err, camfs.ErrNotFound) {
			slog.Warn("failed to open file", "path", path, "err", err)
		}
		writeNotFound(w, uri)
		return
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", path, "err", closeErr)
		}
	}()

	if err := streamFile(w, f, "image/jpeg"); err != nil {
		slog.Warn("stream interrupted", "path", path, "err", err)
	}
}
