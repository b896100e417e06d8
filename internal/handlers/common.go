package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dadao-education/unicatalog/internal/catalog"
	"github.com/dadao-education/unicatalog/internal/importer"
	"github.com/dadao-education/unicatalog/internal/plan"
)

type Handler struct {
	repo     *catalog.Repository
	plan     *plan.Plan
	pipeline *importer.Pipeline

	// tracks runs executing in the background
	wg sync.WaitGroup
}

func New(repo *catalog.Repository, p *plan.Plan, pipeline *importer.Pipeline) *Handler {
	return &Handler{
		repo:     repo,
		plan:     p,
		pipeline: pipeline,
	}
}

// Routes registers every API route on mux
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/universities", h.HandleUniversities)
	mux.HandleFunc("/api/universities/", h.HandleUniversityDetail)
	mux.HandleFunc("/api/plan", h.HandlePlan)
	mux.HandleFunc("/api/plan/", h.HandlePlanItem)
	mux.HandleFunc("/api/imports", h.HandleImports)
	mux.HandleFunc("/api/imports/", h.HandleImportDetail)
	mux.HandleFunc("/api/catalog/reset", h.HandleCatalogReset)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
}

// Wait blocks until runs started by this handler have finished dispatching
func (h *Handler) Wait() {
	h.wg.Wait()
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() if runs are still
// executing when ctx is done.
func (h *Handler) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// statusFor maps pipeline and catalog errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, importer.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, importer.ErrRunActive), errors.Is(err, importer.ErrRunNotAwaiting):
		return http.StatusConflict
	case errors.Is(err, importer.ErrEmptyResult):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) getRunOrError(w http.ResponseWriter, runID string) (*importer.Run, bool) {
	run, exists := h.pipeline.Run(runID)
	if !exists {
		h.writeError(w, "Import run not found", http.StatusNotFound)
		return nil, false
	}
	return run, true
}
