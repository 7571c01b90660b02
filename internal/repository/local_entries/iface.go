package local_entries

import (
	"github.com/kvgrid/kvgrid-go/internal/model"
)

type Repository interface {
	model.MetricsProvider
	Get(key string) (model.Entry, error)
	AddOrUpdate(e model.Entry) error
	Remove(key string) error
	Keys() ([]string, error)
}
