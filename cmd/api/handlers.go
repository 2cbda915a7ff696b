package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stagebase/stagebase/engine/catalogue"
	"github.com/stagebase/stagebase/engine/domain"
	"github.com/stagebase/stagebase/engine/graph"
	"github.com/stagebase/stagebase/pkg/metrics"
	"github.com/stagebase/stagebase/pkg/repo"
)

// maxBody bounds request bodies.
const maxBody = 4 << 20

type server struct {
	cat     *catalogue.Catalogue
	stats   func(ctx context.Context) (graph.Stats, error)
	metrics *metrics.Metrics
	log     *slog.Logger
}

func newServer(cat *catalogue.Catalogue, store repo.Store, m *metrics.Metrics, logger *slog.Logger) *server {
	return &server{
		cat:     cat,
		stats:   func(ctx context.Context) (graph.Stats, error) { return graph.Collect(ctx, store) },
		metrics: m,
		log:     logger,
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("GET /api/{kind}", s.handleList)
	mux.HandleFunc("POST /api/{kind}", s.handleCreate)
	mux.HandleFunc("POST /api/{kind}/validate", s.handleValidate)
	mux.HandleFunc("GET /api/{kind}/{uuid}", s.handleShow)
	mux.HandleFunc("GET /api/{kind}/{uuid}/edit", s.handleEdit)
	mux.HandleFunc("PUT /api/{kind}/{uuid}", s.handleUpdate)
	mux.HandleFunc("DELETE /api/{kind}/{uuid}", s.handleDelete)
	return mux
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.stats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *server) kind(w http.ResponseWriter, r *http.Request) (catalogue.Operations, bool) {
	m, ok := domain.ModelForSlug(r.PathValue("kind"))
	if ok {
		if k, found := s.cat.Kind(m); found {
			return k, true
		}
	}
	writeError(w, http.StatusNotFound, "unknown kind")
	return nil, false
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	k, ok := s.kind(w, r)
	if !ok {
		return
	}
	opts, err := listOpts(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := k.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func listOpts(r *http.Request) (repo.ListOpts, error) {
	var opts repo.ListOpts
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		into *int
	}{{"offset", &opts.Offset}, {"limit", &opts.Limit}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New(p.name + " must be a non-negative integer")
		}
		*p.into = n
	}
	return opts.Normalized(), nil
}

func (s *server) handleShow(w http.ResponseWriter, r *http.Request) {
	k, ok := s.kind(w, r)
	if !ok {
		return
	}
	v, err := k.Show(r.Context(), r.PathValue("uuid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) handleEdit(w http.ResponseWriter, r *http.Request) {
	k, ok := s.kind(w, r)
	if !ok {
		return
	}
	v, err := k.Edit(r.Context(), r.PathValue("uuid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// decode reads the request body into a fresh input of k.
func decode(w http.ResponseWriter, r *http.Request, k catalogue.Operations) (catalogue.Input, bool) {
	in := k.NewInput()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return in, true
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	k, ok := s.kind(w, r)
	if !ok {
		return
	}
	in, ok := decode(w, r, k)
	if !ok {
		return
	}
	v, err := k.Create(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	k, ok := s.kind(w, r)
	if !ok {
		return
	}
	in, ok := decode(w, r, k)
	if !ok {
		return
	}
	v, err := k.Validate(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	k, ok := s.kind(w, r)
	if !ok {
		return
	}
	in, ok := decode(w, r, k)
	if !ok {
		return
	}
	v, err := k.Update(r.Context(), r.PathValue("uuid"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	k, ok := s.kind(w, r)
	if !ok {
		return
	}
	v, err := k.Delete(r.Context(), r.PathValue("uuid"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// fail maps an operation error to its status. Store details stay in the log.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
