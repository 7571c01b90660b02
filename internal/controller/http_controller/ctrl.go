package http_controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/horockey/go-toolbox/http_helpers"
	"github.com/kvgrid/kvgrid-go/internal/model"
	"github.com/kvgrid/kvgrid-go/internal/repository/local_entries"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// HttpController serves the KVGrid wire protocol over a local repository.
// It backs the sandbox command and lets the HTTP gateway be exercised
// without a hosted endpoint.
type HttpController struct {
	serv    *http.Server
	token   string
	repo    local_entries.Repository
	logger  zerolog.Logger
	metrics *metrics
}

func New(
	addr string,
	token string,
	repo local_entries.Repository,
	logger zerolog.Logger,
) *HttpController {
	ctrl := HttpController{
		serv: &http.Server{
			Addr: addr,
		},
		token:   token,
		repo:    repo,
		logger:  logger,
		metrics: newMetrics(),
	}

	router := mux.NewRouter()

	router.HandleFunc("/", ctrl.listKeysHandler).Methods(http.MethodGet)
	router.HandleFunc("/", ctrl.setEntryHandler).Methods(http.MethodPost)
	router.HandleFunc("/{key}", ctrl.getEntryHandler).Methods(http.MethodGet)
	router.HandleFunc("/{key}", ctrl.deleteEntryHandler).Methods(http.MethodDelete)
	router.Use(ctrl.authMW)

	ctrl.serv.Handler = router

	return &ctrl
}

func (ctrl *HttpController) Metrics() []prometheus.Collector {
	return ctrl.metrics.list()
}

// Handler exposes the router for in-process serving (e.g. httptest).
func (ctrl *HttpController) Handler() http.Handler {
	return ctrl.serv.Handler
}

func (ctrl *HttpController) Start(ctx context.Context) (resErr error) {
	var wg sync.WaitGroup
	defer wg.Wait()

	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ctrl.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.Canceled) {
			resErr = errors.Join(resErr, fmt.Errorf("running context: %w", ctx.Err()))
		}

		sdCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := ctrl.serv.Shutdown(sdCtx); err != nil {
			resErr = errors.Join(resErr, fmt.Errorf("shutting down server: %w", err))
		}
		return resErr

	case err := <-errCh:
		return fmt.Errorf("running server: %w", err)
	}
}

func (ctrl *HttpController) authMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if ctrl.token != "" && req.Header.Get("Authorization") != "Bearer "+ctrl.token {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (ctrl *HttpController) getEntryHandler(w http.ResponseWriter, req *http.Request) {
	defer ctrl.observe(time.Now())

	key, found := mux.Vars(req)["key"]
	if !found {
		err := errors.New("missing key")
		ctrl.logger.Error().Err(err).Send()
		_ = http_helpers.RespondWithErr(w, http.StatusBadRequest, err)
		return
	}

	e, err := ctrl.repo.Get(key)
	if err != nil {
		if errors.As(err, &model.KeyNotFoundError{}) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		ctrl.logger.
			Error().
			Err(fmt.Errorf("getting entry from repo: %w", err)).
			Send()
		_ = http_helpers.RespondWithErr(w, http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(e.Value))
}

func (ctrl *HttpController) setEntryHandler(w http.ResponseWriter, req *http.Request) {
	defer ctrl.observe(time.Now())

	if err := req.ParseForm(); err != nil {
		ctrl.logger.
			Error().
			Err(fmt.Errorf("parsing form body: %w", err)).
			Send()
		_ = http_helpers.RespondWithErr(w, http.StatusBadRequest, err)
		return
	}

	for key, values := range req.PostForm {
		for _, value := range values {
			if err := ctrl.repo.AddOrUpdate(model.Entry{
				Key:      key,
				Value:    value,
				Modified: time.Now(),
			}); err != nil {
				ctrl.logger.
					Error().
					Err(fmt.Errorf("setting entry to repo: %w", err)).
					Send()
				_ = http_helpers.RespondWithErr(w, http.StatusInternalServerError, nil)
				return
			}
		}
	}

	_ = http_helpers.RespondOK(w, nil)
}

func (ctrl *HttpController) deleteEntryHandler(w http.ResponseWriter, req *http.Request) {
	defer ctrl.observe(time.Now())

	key, found := mux.Vars(req)["key"]
	if !found {
		err := errors.New("missing key")
		ctrl.logger.Error().Err(err).Send()
		_ = http_helpers.RespondWithErr(w, http.StatusBadRequest, err)
		return
	}

	if err := ctrl.repo.Remove(key); err != nil {
		if errors.As(err, &model.KeyNotFoundError{}) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		ctrl.logger.
			Error().
			Err(fmt.Errorf("deleting entry from repo: %w", err)).
			Send()
		_ = http_helpers.RespondWithErr(w, http.StatusInternalServerError, nil)
		return
	}

	_ = http_helpers.RespondOK(w, nil)
}

func (ctrl *HttpController) listKeysHandler(w http.ResponseWriter, req *http.Request) {
	defer ctrl.observe(time.Now())

	prefix := req.URL.Query().Get("prefix")

	keys, err := ctrl.repo.Keys()
	if err != nil {
		ctrl.logger.
			Error().
			Err(fmt.Errorf("listing repo keys: %w", err)).
			Send()
		_ = http_helpers.RespondWithErr(w, http.StatusInternalServerError, nil)
		return
	}

	keys = lo.Filter(keys, func(el string, _ int) bool {
		return strings.HasPrefix(el, prefix)
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(strings.Join(keys, "\n")))
}

func (ctrl *HttpController) observe(ts time.Time) {
	ctrl.metrics.requestsCnt.Inc()
	ctrl.metrics.handleTimeHist.Observe(float64(time.Since(ts)))
}
