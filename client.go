package kvgrid

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/horockey/go-toolbox/options"
	"github.com/kvgrid/kvgrid-go/internal/gateway/remote_entries"
	"github.com/kvgrid/kvgrid-go/internal/gateway/remote_entries/http_remote_entries"
	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Client issues get/set/delete/list calls against a KVGrid namespace.
// Stateless between calls apart from the transport's connection pool;
// safe for concurrent use.
type Client struct {
	gw     remote_entries.Gateway
	codec  Codec
	logger zerolog.Logger

	closeFn func() error
}

type createClientParams struct {
	timeout time.Duration
	codec   Codec
	logger  zerolog.Logger

	gateway remote_entries.Gateway
	closeFn func() error
}

func defaultCreateClientParams() createClientParams {
	return createClientParams{
		timeout: time.Second * 10, //nolint: mnd
		codec:   JSONCodec,
		logger: zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().
			Timestamp().
			Str("scope", "kvgrid_client").
			Logger(),
	}
}

// NewClient builds a Client from a valid Config.
// A Config that fails validation never yields a Client.
func NewClient(
	cfg Config,
	opts ...options.Option[createClientParams],
) (*Client, error) {
	params := defaultCreateClientParams()
	if err := options.ApplyOptions(&params, opts...); err != nil {
		return nil, fmt.Errorf("applying opts: %w", err)
	}

	if params.gateway == nil {
		if err := cfg.validate(); err != nil {
			return nil, err
		}

		timeout := params.timeout
		if cfg.timeout > 0 {
			timeout = cfg.timeout
		}

		params.gateway = http_remote_entries.New(
			cfg.URL(),
			cfg.token,
			timeout,
			params.logger.With().Str("subscope", "http_gateway").Logger(),
		)
	}

	return &Client{
		gw:      params.gateway,
		codec:   params.codec,
		logger:  params.logger,
		closeFn: params.closeFn,
	}, nil
}

// Get retrieves the value stored under key,
// blocking until the round trip completes.
func (cl *Client) Get(ctx context.Context, key string) (string, error) {
	e, err := cl.gw.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("getting entry: %w", err)
	}
	return e.Value, nil
}

// Set stores value under key, overwriting any previous value.
// Single round trip, all-or-nothing from the caller's perspective.
func (cl *Client) Set(ctx context.Context, key string, value string) error {
	if err := cl.gw.Set(ctx, key, value); err != nil {
		return fmt.Errorf("setting entry: %w", err)
	}
	return nil
}

// Delete removes key from the namespace.
func (cl *Client) Delete(ctx context.Context, key string) error {
	if err := cl.gw.Remove(ctx, key); err != nil {
		return fmt.Errorf("removing entry: %w", err)
	}
	return nil
}

// List returns key names matching prefix.
// Empty prefix lists the whole namespace.
func (cl *Client) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := cl.gw.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	return keys, nil
}

func (cl *Client) Metrics() []prometheus.Collector {
	return cl.gw.Metrics()
}

// Close releases resources held by local-mode clients.
// No-op for HTTP clients.
func (cl *Client) Close() error {
	if cl.closeFn == nil {
		return nil
	}
	return cl.closeFn()
}

// Get retrieves the value stored under key and decodes it
// with the client's codec.
func Get[T any](ctx context.Context, cl *Client, key string) (T, error) {
	var v T

	raw, err := cl.Get(ctx, key)
	if err != nil {
		return v, err
	}

	if err := cl.codec.Unmarshal([]byte(raw), &v); err != nil {
		return *new(T), model.DecodeError{Key: key, Err: err}
	}
	return v, nil
}

// Set encodes value with the client's codec and stores it under key.
func Set[T any](ctx context.Context, cl *Client, key string, value T) error {
	data, err := cl.codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding value of %s: %w", key, err)
	}
	return cl.Set(ctx, key, string(data))
}
