package remote_entries

import (
	"context"

	"github.com/kvgrid/kvgrid-go/internal/model"
)

type Gateway interface {
	model.MetricsProvider
	Get(ctx context.Context, key string) (model.Entry, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
