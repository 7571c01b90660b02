package inmemory_local_entries

import (
	"sync"
	"time"

	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
)

var _ local_entries.Repository = &inmemoryLocalEntries{}

type inmemoryLocalEntries struct {
	storage map[string]*item
	mu      sync.RWMutex
	metrics *metrics
}

type item struct {
	value    string
	modified time.Time
}

func New() *inmemoryLocalEntries {
	repo := inmemoryLocalEntries{
		storage: map[string]*item{},
	}

	repo.metrics = newMetrics(&repo)

	return &repo
}

func (repo *inmemoryLocalEntries) Get(key string) (res model.Entry, resErr error) {
	repo.metrics.getRequestsCnt.Inc()
	defer func(ts time.Time) {
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	it, found := repo.storage[key]
	if !found {
		return model.Entry{}, model.KeyNotFoundError{Key: key}
	}

	return model.Entry{
		Key:      key,
		Value:    it.value,
		Modified: it.modified,
	}, nil
}

// AddOrUpdate overwrites any existing value for the key (last write wins).
func (repo *inmemoryLocalEntries) AddOrUpdate(e model.Entry) (resErr error) {
	repo.metrics.setRequestsCnt.Inc()
	defer func(ts time.Time) {
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if e.Modified.IsZero() {
		e.Modified = time.Now()
	}
	repo.storage[e.Key] = &item{value: e.Value, modified: e.Modified}

	return nil
}

func (repo *inmemoryLocalEntries) Remove(key string) (resErr error) {
	repo.metrics.delRequestsCnt.Inc()
	defer func(ts time.Time) {
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, found := repo.storage[key]; !found {
		return model.KeyNotFoundError{Key: key}
	}

	delete(repo.storage, key)
	return nil
}

func (repo *inmemoryLocalEntries) Keys() (res []string, resErr error) {
	repo.metrics.getRequestsCnt.Inc()
	defer func(ts time.Time) {
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return lo.Keys(repo.storage), nil
}

func (repo *inmemoryLocalEntries) Metrics() []prometheus.Collector {
	return repo.metrics.list()
}
