package kvgrid

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/spf13/cast"
)

// Environment variables recognized by NewConfig and NewFromEnv.
const (
	EnvURL      = "KVGRID_URL"
	EnvToken    = "KVGRID_TOKEN"
	EnvTimeout  = "KVGRID_TIMEOUT"
	EnvMode     = "KVGRID_MODE"
	EnvLocalDir = "KVGRID_LOCAL_DIR"
)

// Config holds the resolved endpoint and credentials.
// Immutable after construction.
type Config struct {
	url     *url.URL
	token   string
	timeout time.Duration
}

// NewConfig resolves endpoint URL and token from the environment.
// KVGRID_TIMEOUT (seconds) optionally caps the per-request round trip.
func NewConfig() (Config, error) {
	cfg, err := NewConfigWith(os.Getenv(EnvURL), os.Getenv(EnvToken))
	if err != nil {
		return Config{}, err
	}

	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		secs := cast.ToInt(raw)
		if secs <= 0 {
			return Config{}, model.ConfigError{Name: EnvTimeout, Reason: "must be a positive number of seconds"}
		}
		cfg.timeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

// NewConfigWith builds a Config from explicit arguments,
// overriding any environment lookup.
func NewConfigWith(rawURL string, token string) (Config, error) {
	rawURL = strings.TrimSpace(rawURL)
	token = strings.TrimSpace(token)

	if rawURL == "" {
		return Config{}, model.ConfigError{Name: EnvURL, Reason: "endpoint URL is required"}
	}
	if token == "" {
		return Config{}, model.ConfigError{Name: EnvToken, Reason: "auth token is required"}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Config{}, model.ConfigError{Name: EnvURL, Reason: "unparsable URL: " + err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Config{}, model.ConfigError{Name: EnvURL, Reason: "URL scheme must be http or https"}
	}
	if u.Host == "" {
		return Config{}, model.ConfigError{Name: EnvURL, Reason: "URL host is required"}
	}

	return Config{url: u, token: token}, nil
}

// URL returns the configured endpoint.
func (cfg Config) URL() string {
	if cfg.url == nil {
		return ""
	}
	return cfg.url.String()
}

// Timeout returns the configured per-request timeout (zero means default).
func (cfg Config) Timeout() time.Duration {
	return cfg.timeout
}

func (cfg Config) validate() error {
	if cfg.url == nil || cfg.url.Host == "" {
		return model.ConfigError{Name: EnvURL, Reason: "endpoint URL is required"}
	}
	if cfg.token == "" {
		return model.ConfigError{Name: EnvToken, Reason: "auth token is required"}
	}
	return nil
}
