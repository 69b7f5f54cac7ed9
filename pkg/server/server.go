// Copyright 2026 The esmcheck Authors.
// SPDX-License-Identifier: Apache-2.0

// Package server exposes schema validation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/esmtools/esmcheck/pkg/experiments"
	"github.com/esmtools/esmcheck/pkg/reportstore"
	"github.com/esmtools/esmcheck/pkg/schema"
)

type Opts struct {
	Addr            string
	Strict          bool
	ShutdownTimeout time.Duration
}

// Store records finished validation runs. A nil Store disables history.
type Store interface {
	Insert(ctx context.Context, run reportstore.Run) error
	ListRecent(ctx context.Context, n int) ([]reportstore.Run, error)
}

type Server struct {
	opts    Opts
	store   Store
	clock   clockwork.Clock
	log     *zap.Logger
	metrics *Metrics
}

func New(opts Opts, store Store, clock clockwork.Clock, log *zap.Logger) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		opts:    opts,
		store:   store,
		clock:   clock,
		log:     log,
		metrics: NewMetrics(),
	}
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/validate", s.handleValidate)
	if experiments.IsReportsHTTPEnabled() && s.store != nil {
		mux.HandleFunc("/v1/reports", s.handleReports)
	}
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// Run serves until ctx is canceled, then shuts down gracefully within
// the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{Addr: s.opts.Addr, Handler: s.Mux()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	s.log.Info("listening", zap.String("addr", s.opts.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type validateRequest struct {
	Schema string `json:"schema"`
	Data   string `json:"data"`
	Strict *bool  `json:"strict,omitempty"`
}

type validateResponse struct {
	ID     string   `json:"id"`
	OK     bool     `json:"ok"`
	Errors []string `json:"errors,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{"expected POST"})
		return
	}

	s.metrics.Inflight.Inc()
	defer s.metrics.Inflight.Dec()
	s.metrics.RequestsTotal.Inc()

	start := s.clock.Now()
	defer func() {
		s.metrics.Duration.Observe(s.clock.Since(start).Seconds())
	}()

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"decoding request: " + err.Error()})
		return
	}

	id := uuid.NewString()

	ruleSet, err := schema.NewRuleSetFromBytes([]byte(req.Schema), "schema.yml")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}

	strict := s.opts.Strict
	if req.Strict != nil {
		strict = *req.Strict
	}

	chk, err := schema.CheckBytes(ruleSet, []byte(req.Data), "data.yml", schema.CheckOpts{Strict: strict})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}

	resp := validateResponse{ID: id, OK: !chk.HasViolations()}
	for _, violation := range chk.Violations {
		resp.Errors = append(resp.Errors, violation.Error())
	}
	if chk.HasViolations() {
		s.metrics.FailuresTotal.Inc()
	}

	s.record(r.Context(), id, chk)
	s.log.Info("validated",
		zap.String("id", id),
		zap.Bool("ok", resp.OK),
		zap.Int("violations", len(resp.Errors)))

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) record(ctx context.Context, id string, chk schema.TypeCheck) {
	if s.store == nil {
		return
	}

	err := s.store.Insert(ctx, reportstore.Run{
		ID:         id,
		Source:     "api",
		OK:         !chk.HasViolations(),
		ErrorCount: len(chk.Violations),
		Errors:     chk.Error(),
	})
	if err != nil {
		s.log.Error("recording run", zap.String("id", id), zap.Error(err))
	}
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{"expected GET"})
		return
	}

	limit := 20
	if arg := r.URL.Query().Get("limit"); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{"limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	runs, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		s.log.Error("listing runs", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{"listing runs: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, val interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(val)
}
