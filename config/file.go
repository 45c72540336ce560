package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the part of the configuration written by `camfs configure`.
// Keys it leaves empty keep their defaults when loaded.
type File struct {
	Server  ServerSection  `yaml:"server,omitempty"`
	WiFi    WiFiSection    `yaml:"wifi,omitempty"`
	Storage StorageSection `yaml:"storage,omitempty"`
}

type ServerSection struct {
	Port     int `yaml:"port,omitempty"`
	MaxFiles int `yaml:"max_files,omitempty"`
}

type WiFiSection struct {
	Mode     string `yaml:"mode,omitempty"`
	SSID     string `yaml:"ssid,omitempty"`
	Password string `yaml:"password,omitempty"`
	Timeout  string `yaml:"timeout,omitempty"`
}

type StorageSection struct {
	Type string `yaml:"type,omitempty"`
	Path string `yaml:"path,omitempty"`
}

// Save writes the file to path with owner-only permissions, since it holds
// the WiFi password. Creates the parent directory if it doesn't exist.
func (f *File) Save(path string) error {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// LoadFile reads a file written by Save. The returned error wraps
// os.ErrNotExist when there is no file yet.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &f, nil
}
