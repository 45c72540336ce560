package camfs

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// FileEntry is one row of a listing pass.
type FileEntry struct {
	// Path is root-relative and always starts with "/".
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Name returns the path without its leading separator.
func (e FileEntry) Name() string {
	return strings.TrimPrefix(e.Path, "/")
}

// Credentials identify the WiFi network to join or to create.
type Credentials struct {
	SSID     string
	Password string
}

type Mode string

const (
	ModeClient      Mode = "client"
	ModeAccessPoint Mode = "access-point"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModeClient, ModeAccessPoint:
		return true
	default:
		return false
	}
}

func ParseMode(s string) (Mode, error) {
	mode := Mode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid wifi mode: %s (valid modes: client, access-point)", s)
	}
	return mode, nil
}

// Tables holds configurable table names for the flash image.
type Tables struct {
	Files string `mapstructure:"files"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Files == "" {
		return errors.New("validate tables: files table name cannot be empty")
	}

	if !IsValidTableName(t.Files) {
		return fmt.Errorf("validate tables: invalid files table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Files)
	}

	return nil
}
