package http

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sagarc03/camfs"
)

// send writes a complete response with the given status, content type and body.
func send(w http.ResponseWriter, code int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(code)
	if _, err := io.WriteString(w, body); err != nil {
		slog.Debug("failed to write response", "err", err)
	}
}

// streamFile copies the whole file to the client with status 200.
func streamFile(w http.ResponseWriter, f camfs.File, contentType string) error {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size(), 10))
	w.WriteHeader(http.StatusOK)
	_, err := f.WriteTo(w)
	return err
}
