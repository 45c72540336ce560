// Package config provides configuration loading and validation for camfs.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (CAMFS_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with CAMFS_ prefix:
//   - server.port → CAMFS_SERVER_PORT
//   - wifi.ssid → CAMFS_WIFI_SSID
//   - storage.type → CAMFS_STORAGE_TYPE
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port, max_files listed on the index page, request backlog
//   - WiFi: mode (client/access-point), ssid, password, connect timeout, ap_ip
//   - Storage: type (sdcard/flash), card mount path, flash image dsn and table
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
package config
