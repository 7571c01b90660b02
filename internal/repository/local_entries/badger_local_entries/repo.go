package badger_local_entries

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries"
	"github.com/prometheus/client_golang/prometheus"
)

var _ local_entries.Repository = &badgerLocalEntries{}

type badgerLocalEntries struct {
	db      *badger.DB
	metrics *metrics
}

func New(db *badger.DB) *badgerLocalEntries {
	return &badgerLocalEntries{
		db:      db,
		metrics: newMetrics(db),
	}
}

func (repo *badgerLocalEntries) Metrics() []prometheus.Collector {
	return repo.metrics.list()
}

func (repo *badgerLocalEntries) Get(key string) (resEntry model.Entry, resErr error) {
	defer func(ts time.Time) {
		repo.metrics.requestsCnt.Inc()
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch {
		case resErr == nil:
			repo.metrics.successProcessCnt.Inc()
			repo.metrics.keyHitsCnt.Inc()
		case errors.As(resErr, &model.KeyNotFoundError{}):
			repo.metrics.keyMissesCnt.Inc()
			fallthrough
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	res := model.Entry{
		Key: key,
	}
	if err := repo.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return model.KeyNotFoundError{Key: key}
			}
			return fmt.Errorf("getting item: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			if err := gob.
				NewDecoder(bytes.NewBuffer(val)).
				Decode(&res); err != nil {
				return fmt.Errorf("decoding gob: %w", err)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("getting value: %w", err)
		}

		return nil
	}); err != nil {
		if errors.As(err, &model.KeyNotFoundError{}) {
			return model.Entry{}, model.KeyNotFoundError{Key: key}
		}
		return model.Entry{}, fmt.Errorf("reading from db: %w", err)
	}

	return res, nil
}

// AddOrUpdate overwrites any existing value for the key (last write wins).
func (repo *badgerLocalEntries) AddOrUpdate(e model.Entry) (resErr error) {
	defer func(ts time.Time) {
		repo.metrics.requestsCnt.Inc()
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
			repo.metrics.repoSizeItemsGauge.Inc()
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	if e.Modified.IsZero() {
		e.Modified = time.Now()
	}

	if err := repo.db.Update(func(txn *badger.Txn) error {
		buf := bytes.NewBuffer(nil)
		if err := gob.
			NewEncoder(buf).
			Encode(e); err != nil {
			return fmt.Errorf("encoding gob: %w", err)
		}

		if err := txn.Set([]byte(e.Key), buf.Bytes()); err != nil {
			return fmt.Errorf("setting item to db: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("performing upd txn: %w", err)
	}

	return nil
}

func (repo *badgerLocalEntries) Remove(key string) (resErr error) {
	defer func(ts time.Time) {
		repo.metrics.requestsCnt.Inc()
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
			repo.metrics.repoSizeItemsGauge.Dec()
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	if err := repo.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return model.KeyNotFoundError{Key: key}
			}
			return fmt.Errorf("getting item: %w", err)
		}

		if err := txn.Delete([]byte(key)); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}

		return nil
	}); err != nil {
		if errors.As(err, &model.KeyNotFoundError{}) {
			return model.KeyNotFoundError{Key: key}
		}
		return fmt.Errorf("performing del txn: %w", err)
	}

	return nil
}

func (repo *badgerLocalEntries) Keys() (resKeys []string, resErr error) {
	defer func(ts time.Time) {
		repo.metrics.requestsCnt.Inc()
		repo.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			repo.metrics.successProcessCnt.Inc()
		default:
			repo.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	keys := []string{}
	if err := repo.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("iterating db keys: %w", err)
	}

	return keys, nil
}
