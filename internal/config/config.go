// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and
// an optional JSON or TOML config file.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"server_address" toml:"server_address"`

	// StoreDSN selects the slot store backend: memory:, file:<path>,
	// sqlite:<path> or a postgres:// URL.
	StoreDSN string `json:"store_dsn" toml:"store_dsn"`

	// Config is the path to the Config file.
	Config string `json:"-" toml:"-"`

	// Currency is the ISO 4217 code whose symbol prefixes amounts.
	Currency string `json:"currency" toml:"currency"`

	// TemplatesDir replaces the built-in templates when set.
	TemplatesDir string `json:"templates_dir" toml:"templates_dir"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"log_level" toml:"log_level"`

	// Retention is how long an untouched device is kept by SQL backends.
	// Zero disables the cleaner.
	Retention Duration `json:"retention" toml:"retention"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert" toml:"tls_cert"`
	TLSKey  string `json:"tls_key" toml:"tls_key"`
}

// Duration is a time.Duration written as "720h" in flags and config files.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a time.ParseDuration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults.
const (
	DefaultAddress   = "localhost:8080"
	DefaultStoreDSN  = "file:storage.json"
	DefaultConfig    = "config.json"
	DefaultCurrency  = "INR"
	DefaultLogLevel  = "info"
	DefaultRetention = 30 * 24 * time.Hour
)

// Parse parses the command-line flags, the config file and environment
// variables. It returns a pointer to the Options struct containing the
// parsed configuration values.
func Parse() *Options {
	o, err := parse(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("error while parsing configuration: %v", err)
	}
	return o
}

// parse applies, from lowest to highest precedence: defaults, the config
// file, explicit command-line flags and environment variables.
func parse(args []string, getenv func(string) string) (*Options, error) {
	o := &Options{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&o.Port, "a", DefaultAddress, "run on ip:port server")
	fs.StringVar(&o.StoreDSN, "d", DefaultStoreDSN, "store DSN (memory:, file:<path>, sqlite:<path>, postgres://...)")
	fs.StringVar(&o.Config, "config", DefaultConfig, "path to config file")
	fs.StringVar(&o.Config, "c", DefaultConfig, "path to config file (shorthand)")
	fs.StringVar(&o.Currency, "currency", DefaultCurrency, "ISO 4217 currency code")
	fs.StringVar(&o.TemplatesDir, "templates", "", "directory overriding the built-in templates")
	fs.StringVar(&o.LogLevel, "log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.TextVar(&o.Retention, "retention", Duration{DefaultRetention}, "drop devices untouched for this long (SQL stores, 0 disables)")
	fs.StringVar(&o.TLSCert, "tls-cert", "", "TLS certificate file")
	fs.StringVar(&o.TLSKey, "tls-key", "", "TLS key file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Override flags with environment variables if set
	if configPath := getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		loaded, err := loadFile(o.Config, o)
		if err != nil {
			return nil, err
		}
		if loaded {
			// Flags given explicitly win over the file.
			if err := fs.Parse(args); err != nil {
				return nil, err
			}
			if configPath := getenv("CONFIG"); configPath != "" {
				o.Config = configPath
			}
		}
	}

	if serverAddress := getenv("SERVER_ADDRESS"); serverAddress != "" {
		o.Port = serverAddress
	}
	if dsn := getenv("STORE_DSN"); dsn != "" {
		o.StoreDSN = dsn
	}
	if currency := getenv("CURRENCY"); currency != "" {
		o.Currency = currency
	}
	if level := getenv("LOG_LEVEL"); level != "" {
		o.LogLevel = level
	}

	if (o.TLSCert == "") != (o.TLSKey == "") {
		return nil, errors.New("tls-cert and tls-key must be set together")
	}
	return o, nil
}

// loadFile decodes path into o. A missing file is not an error and
// reports false.
func loadFile(path string, o *Options) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error while reading config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), o); err != nil {
			return false, fmt.Errorf("error while parsing config file: %w", err)
		}
		return true, nil
	}
	if err := json.Unmarshal(data, o); err != nil {
		return false, fmt.Errorf("error while parsing config file: %w", err)
	}
	return true, nil
}
