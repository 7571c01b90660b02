package kvgrid

import (
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger"
	"github.com/horockey/go-toolbox/options"
	"github.com/kvgrid/kvgrid-go/internal/gateway/remote_entries/local_remote_entries"
	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries/badger_local_entries"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries/inmemory_local_entries"
)

// Client modes resolved by NewFromEnv.
const (
	ModeHTTP  = "http"
	ModeLocal = "local"

	modeAuto = "auto"
)

// NewFromEnv initialises a Client from KVGrid environment variables and
// returns the resolved mode.
//
// KVGRID_MODE=auto (default) picks http when KVGRID_URL is set and falls
// back to a local client otherwise. Local clients keep data in memory, or
// in a badger store when KVGRID_LOCAL_DIR points to a directory.
func NewFromEnv(opts ...options.Option[createClientParams]) (*Client, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(EnvMode)))
	baseURL := strings.TrimSpace(os.Getenv(EnvURL))

	switch mode {
	case "", modeAuto:
		if baseURL != "" {
			return newHTTPFromEnv(opts...)
		}
		cl, err := NewLocalClient(opts...)
		return cl, ModeLocal, err
	case ModeHTTP:
		return newHTTPFromEnv(opts...)
	case ModeLocal:
		cl, err := NewLocalClient(opts...)
		return cl, ModeLocal, err
	default:
		return nil, "", model.ConfigError{Name: EnvMode, Reason: fmt.Sprintf("unsupported value %q", mode)}
	}
}

func newHTTPFromEnv(opts ...options.Option[createClientParams]) (*Client, string, error) {
	cfg, err := NewConfig()
	if err != nil {
		return nil, "", err
	}

	cl, err := NewClient(cfg, opts...)
	if err != nil {
		return nil, "", err
	}
	return cl, ModeHTTP, nil
}

// NewLocalClient builds a Client backed by a local repository instead of
// an HTTP transport. Useful for development and tests; no endpoint or
// token is required.
func NewLocalClient(opts ...options.Option[createClientParams]) (*Client, error) {
	params := defaultCreateClientParams()
	if err := options.ApplyOptions(&params, opts...); err != nil {
		return nil, fmt.Errorf("applying opts: %w", err)
	}

	if params.gateway == nil {
		var repo local_entries.Repository
		if dir := strings.TrimSpace(os.Getenv(EnvLocalDir)); dir != "" {
			db, err := badger.Open(badger.DefaultOptions(dir))
			if err != nil {
				return nil, fmt.Errorf("opening badger db: %w", err)
			}
			repo = badger_local_entries.New(db)
			params.closeFn = db.Close
		} else {
			repo = inmemory_local_entries.New()
		}

		params.gateway = local_remote_entries.New(
			repo,
			params.logger.With().Str("subscope", "local_gateway").Logger(),
		)
	}

	return &Client{
		gw:      params.gateway,
		codec:   params.codec,
		logger:  params.logger,
		closeFn: params.closeFn,
	}, nil
}
