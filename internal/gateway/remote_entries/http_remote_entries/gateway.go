package http_remote_entries

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kvgrid/kvgrid-go/internal/gateway/remote_entries"
	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var _ remote_entries.Gateway = &httpRemoteEntries{}

type httpRemoteEntries struct {
	cl      *resty.Client
	metrics *metrics
	logger  zerolog.Logger
}

func New(
	baseURL string,
	token string,
	timeout time.Duration,
	logger zerolog.Logger,
) *httpRemoteEntries {
	return &httpRemoteEntries{
		metrics: newMetrics(),
		logger:  logger,
		cl: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(token).
			SetTimeout(timeout).
			SetRetryCount(0),
	}
}

func (gw *httpRemoteEntries) Metrics() []prometheus.Collector {
	return gw.metrics.list()
}

func (gw *httpRemoteEntries) Get(ctx context.Context, key string) (res model.Entry, resErr error) {
	gw.logger.Debug().Str("action", "get").Str("key", key).Msg("Getting entry from remote")
	defer func(ts time.Time) {
		gw.metrics.requestsCnt.Inc()
		gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			gw.metrics.successProcessCnt.Inc()
		default:
			gw.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("key", key).
		Get("/{key}")
	if err != nil {
		return model.Entry{}, model.TransportError{Op: "get", Err: err}
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		break
	case http.StatusNotFound:
		return model.Entry{}, model.KeyNotFoundError{Key: key}
	default:
		return model.Entry{}, model.TransportError{Op: "get", Status: resp.StatusCode()}
	}

	return model.Entry{
		Key:      key,
		Value:    resp.String(),
		Modified: time.Now(),
	}, nil
}

func (gw *httpRemoteEntries) Set(ctx context.Context, key string, value string) (resErr error) {
	gw.logger.Debug().Str("action", "set").Str("key", key).Msg("Setting entry on remote")
	defer func(ts time.Time) {
		gw.metrics.requestsCnt.Inc()
		gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			gw.metrics.successProcessCnt.Inc()
		default:
			gw.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetFormData(map[string]string{key: value}).
		Post("")
	if err != nil {
		return model.TransportError{Op: "set", Err: err}
	}
	if !resp.IsSuccess() {
		return model.TransportError{Op: "set", Status: resp.StatusCode()}
	}

	return nil
}

func (gw *httpRemoteEntries) Remove(ctx context.Context, key string) (resErr error) {
	gw.logger.Debug().Str("action", "remove").Str("key", key).Msg("Removing entry from remote")
	defer func(ts time.Time) {
		gw.metrics.requestsCnt.Inc()
		gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			gw.metrics.successProcessCnt.Inc()
		default:
			gw.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("key", key).
		Delete("/{key}")
	if err != nil {
		return model.TransportError{Op: "remove", Err: err}
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		break
	case http.StatusNotFound:
		return model.KeyNotFoundError{Key: key}
	default:
		return model.TransportError{Op: "remove", Status: resp.StatusCode()}
	}

	return nil
}

// Keys lists key names matching prefix.
// The remote responds with one key name per line.
func (gw *httpRemoteEntries) Keys(ctx context.Context, prefix string) (res []string, resErr error) {
	gw.logger.Debug().Str("action", "keys").Str("prefix", prefix).Msg("Listing keys from remote")
	defer func(ts time.Time) {
		gw.metrics.requestsCnt.Inc()
		gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

		switch resErr {
		case nil:
			gw.metrics.successProcessCnt.Inc()
		default:
			gw.metrics.errProcessCnt.Inc()
		}
	}(time.Now())

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetQueryParam("prefix", prefix).
		Get("")
	if err != nil {
		return nil, model.TransportError{Op: "keys", Err: err}
	}
	if !resp.IsSuccess() {
		return nil, model.TransportError{Op: "keys", Status: resp.StatusCode()}
	}

	lines := strings.Split(resp.String(), "\n")
	return lo.Filter(lines, func(el string, _ int) bool { return el != "" }), nil
}
