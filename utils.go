package camfs

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// FormatBytes renders a byte count for display. Values of 1KB and above are
// shown with two decimals.
func FormatBytes(n uint64) string {
	switch {
	case n < kib:
		return fmt.Sprintf("%dB", n)
	case n < mib:
		return fmt.Sprintf("%.2fKB", float64(n)/kib)
	case n < gib:
		return fmt.Sprintf("%.2fMB", float64(n)/mib)
	default:
		return fmt.Sprintf("%.2fGB", float64(n)/gib)
	}
}

// IsImageName reports whether a file name is listed in the index. A name
// qualifies when ".jpeg" or ".jpg" occurs anywhere in it, including at the
// very start.
func IsImageName(name string) bool {
	return strings.Contains(name, ".jpeg") || strings.Contains(name, ".jpg")
}

// viewPrefix is the route prefix for file views. The file path is what
// remains after slicing off the prefix minus its trailing separator.
const viewPrefix = "/view/"

// ViewPath maps a request path such as "/view/foo.jpg" to the store path
// "/foo.jpg". It reports false when the request is not a view request.
func ViewPath(uri string) (string, bool) {
	if !strings.HasPrefix(uri, viewPrefix) {
		return "", false
	}
	return uri[len(viewPrefix)-1:], true
}

// ViewURL is the inverse of ViewPath for a store path with a leading "/".
// Each segment is percent-escaped so names holding spaces, '#' or '?'
// survive the round trip through a browser.
func ViewURL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return viewPrefix[:len(viewPrefix)-1] + strings.Join(segments, "/")
}

// IsValidPath validates a store path with its leading "/" already removed.
// It checks that the path:
//   - is not empty, ".", or "/"
//   - is relative (does not start with "/")
//   - does not end with "/"
//   - does not contain ".." (path traversal)
//   - does not contain "//" (empty segments)
//   - does not contain invalid characters: \ ? # ~
//   - is valid UTF-8
//   - does not contain "." segments
//   - does not contain control characters or whitespace
func IsValidPath(p string) bool {
	if p == "" || p == "/" || p == "." {
		return false
	}

	if p[0] == '/' {
		return false
	}

	if strings.HasSuffix(p, "/") {
		return false
	}

	if strings.Contains(p, "..") {
		return false
	}

	if strings.Contains(p, "//") {
		return false
	}

	if strings.ContainsAny(p, `\?#~`) {
		return false
	}

	if !utf8.ValidString(p) {
		return false
	}

	if strings.Contains(p, "/./") || strings.HasSuffix(p, "/.") || strings.HasPrefix(p, "./") {
		return false
	}

	for _, r := range p {
		if r == 0 || r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}

// StorePath normalises a user supplied path to the "/name" form used by
// stores, validating it along the way.
func StorePath(p string) (string, error) {
	rel := strings.TrimPrefix(p, "/")
	if !IsValidPath(rel) {
		return "", fmt.Errorf("store path %q: %w", p, ErrInvalidInput)
	}
	return "/" + rel, nil
}
