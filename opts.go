package kvgrid

import (
	"errors"
	"fmt"
	"time"

	"github.com/horockey/go-toolbox/options"
	"github.com/kvgrid/kvgrid-go/internal/gateway/remote_entries"
	"github.com/rs/zerolog"
)

// Sets custom per-request timeout.
// Default is 10s; KVGRID_TIMEOUT from the environment takes precedence.
func WithTimeout(to time.Duration) options.Option[createClientParams] {
	return func(target *createClientParams) error {
		if to <= 0 {
			return fmt.Errorf("timeout must be positive, got: %s", to.String())
		}
		target.timeout = to
		return nil
	}
}

// Sets custom logger.
// Default is stdout logger.
func WithLogger(l zerolog.Logger) options.Option[createClientParams] {
	return func(target *createClientParams) error {
		target.logger = l
		return nil
	}
}

// Sets custom value codec for the typed Get/Set helpers.
// Default is JSON.
func WithCodec(c Codec) options.Option[createClientParams] {
	return func(target *createClientParams) error {
		if c == nil {
			return errors.New("got nil codec")
		}
		target.codec = c
		return nil
	}
}

// Sets user-defined gateway implementation, bypassing the HTTP transport.
//
// WARNING! Apply this opt only if you know what you are doing.
func WithGateway(gw remote_entries.Gateway) options.Option[createClientParams] {
	return func(target *createClientParams) error {
		if gw == nil {
			return errors.New("got nil gateway")
		}
		target.gateway = gw
		return nil
	}
}
