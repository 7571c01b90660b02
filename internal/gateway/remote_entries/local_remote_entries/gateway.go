package local_remote_entries

import (
	"context"
	"strings"
	"time"

	"github.com/kvgrid/kvgrid-go/internal/gateway/remote_entries"
	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var _ remote_entries.Gateway = &localRemoteEntries{}

// localRemoteEntries serves the gateway contract from a local repository.
// Used in local mode, where no remote endpoint is configured.
type localRemoteEntries struct {
	repo   local_entries.Repository
	logger zerolog.Logger
}

func New(
	repo local_entries.Repository,
	logger zerolog.Logger,
) *localRemoteEntries {
	return &localRemoteEntries{
		repo:   repo,
		logger: logger,
	}
}

func (gw *localRemoteEntries) Metrics() []prometheus.Collector {
	return gw.repo.Metrics()
}

func (gw *localRemoteEntries) Get(ctx context.Context, key string) (model.Entry, error) {
	gw.logger.Debug().Str("action", "get").Str("key", key).Msg("Getting entry from local repo")
	return gw.repo.Get(key)
}

func (gw *localRemoteEntries) Set(ctx context.Context, key string, value string) error {
	gw.logger.Debug().Str("action", "set").Str("key", key).Msg("Setting entry to local repo")
	return gw.repo.AddOrUpdate(model.Entry{
		Key:      key,
		Value:    value,
		Modified: time.Now(),
	})
}

func (gw *localRemoteEntries) Remove(ctx context.Context, key string) error {
	gw.logger.Debug().Str("action", "remove").Str("key", key).Msg("Removing entry from local repo")
	return gw.repo.Remove(key)
}

func (gw *localRemoteEntries) Keys(ctx context.Context, prefix string) ([]string, error) {
	gw.logger.Debug().Str("action", "keys").Str("prefix", prefix).Msg("Listing keys from local repo")

	keys, err := gw.repo.Keys()
	if err != nil {
		return nil, err
	}

	return lo.Filter(keys, func(el string, _ int) bool {
		return strings.HasPrefix(el, prefix)
	}), nil
}
