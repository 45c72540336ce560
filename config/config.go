package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/camfs"
	camfshttp "github.com/sagarc03/camfs/http"
	"github.com/sagarc03/camfs/server"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for camfs.
type Config struct {
	Server  ServerConfig         `mapstructure:"server"`
	WiFi    WiFiConfig           `mapstructure:"wifi"`
	Storage server.StorageConfig `mapstructure:"storage"`
	CORS    camfshttp.CORSConfig `mapstructure:"cors"`
	Log     LogConfig            `mapstructure:"log"`
	Env     string               `mapstructure:"env"`
}

// ServerConfig holds file server configuration.
type ServerConfig struct {
	Port     int `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxFiles int `mapstructure:"max_files" validate:"min=0"`
	Backlog  int `mapstructure:"backlog" validate:"min=0"`
}

// WiFiConfig holds the network the device joins or creates.
type WiFiConfig struct {
	Mode     string        `mapstructure:"mode" validate:"required,oneof=client access-point"`
	SSID     string        `mapstructure:"ssid"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	APIP     string        `mapstructure:"ap_ip" validate:"omitempty,ipv4"`
}

// Credentials returns the SSID and password pair.
func (w WiFiConfig) Credentials() camfs.Credentials {
	return camfs.Credentials{SSID: w.SSID, Password: w.Password}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":         "server.port",
	"max-files":    "server.max_files",
	"mode":         "wifi.mode",
	"ssid":         "wifi.ssid",
	"password":     "wifi.password",
	"timeout":      "wifi.timeout",
	"storage-type": "storage.type",
	"storage-path": "storage.path",
	"flash-dsn":    "storage.flash.dsn",
	"log-level":    "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", server.DefaultPort)
	v.SetDefault("server.max_files", camfs.DefaultMaxNumFiles)
	v.SetDefault("server.backlog", camfshttp.DefaultBacklog)

	v.SetDefault("wifi.mode", string(camfs.ModeClient))
	v.SetDefault("wifi.ssid", "")
	v.SetDefault("wifi.password", "")
	v.SetDefault("wifi.timeout", camfs.DefaultConnectTimeout)
	v.SetDefault("wifi.ap_ip", "192.168.4.1")

	v.SetDefault("storage.type", server.StorageSDCard)
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.flash.dsn", "flash.db")
	v.SetDefault("storage.flash.table", "flash_files")

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "HEAD", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{})
	v.SetDefault("cors.exposed_headers", []string{"Content-Length"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("env", "dev")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("CAMFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
