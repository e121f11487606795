package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// BaseURL holds the portal URL given on the command line. It implements the
// flag.Value interface; the value is checked by validation after all
// sources are merged, so a bad URL ends up in the error state rather than
// in a flag parse failure.
type BaseURL struct {
	raw string
}

// String returns the URL as it was set, or an empty string.
func (u *BaseURL) String() string {
	if u == nil {
		return ""
	}
	return u.raw
}

// Set stores s without surrounding spaces.
func (u *BaseURL) Set(s string) error {
	u.raw = strings.TrimSpace(s)
	return nil
}

// parseFlags parses the client flags from args.
//
// Flags:
//
//	-api              portal API base URL
//	-request-timeout  API request timeout (e.g. "30s"); 0 disables it
//	-d                SQLite file holding the persisted session
//	-o                directory for downloaded APK files
//	-storage-key      secret used to seal persisted tokens
//	-refresh-interval background build list reload interval (e.g. "5m")
//	-c/-config        JSON or YAML config file path
//	-env-file         dotenv file path
func parseFlags(args []string) (*ClientConfig, error) {
	fs := flag.NewFlagSet("apk-portal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var apiBaseURL BaseURL
	var requestTimeout time.Duration
	var dsn string
	var downloadDir string
	var storageKey string
	var refreshInterval time.Duration
	var configPath string
	var envFilePath string

	fs.Var(&apiBaseURL, "api", "Portal API base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "API request timeout (e.g., 30s)")
	fs.StringVar(&dsn, "d", "", "SQLite file holding the persisted session")
	fs.StringVar(&downloadDir, "o", "", "Directory for downloaded APK files")
	fs.StringVar(&storageKey, "storage-key", "", "Secret used to seal persisted tokens")
	fs.DurationVar(&refreshInterval, "refresh-interval", 0, "Build list reload interval (e.g., 5m)")
	fs.StringVar(&configPath, "c", "", "JSON/YAML config file path")
	fs.StringVar(&configPath, "config", "", "JSON/YAML config file path (alias)")
	fs.StringVar(&envFilePath, "env-file", "", "Dotenv file path")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &ClientConfig{
		Portal:  Portal{APIBaseURL: apiBaseURL.String()},
		App:     App{StorageKey: storageKey},
		Adapter: Adapter{RequestTimeout: requestTimeout},
		Storage: Storage{
			DB:          DB{DSN: dsn},
			DownloadDir: downloadDir,
		},
		Workers:     Workers{ListRefreshInterval: refreshInterval},
		FilePath:    configPath,
		EnvFilePath: envFilePath,
	}, nil
}
