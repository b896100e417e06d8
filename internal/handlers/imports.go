package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dadao-education/unicatalog/internal/catalog"
	"github.com/dadao-education/unicatalog/internal/importer"
)

const maxUploadSize = 10 * 1024 * 1024

func (h *Handler) HandleImports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		runs := h.pipeline.Runs()
		list := make([]importer.Snapshot, 0, len(runs))
		for _, run := range runs {
			list = append(list, run.Snapshot())
		}
		h.writeJSON(w, list)
	case "POST":
		h.handleCreateImport(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	var (
		source  importer.Source
		cleanup func()
		err     error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		source, cleanup, err = h.uploadSource(r)
	} else {
		source, err = h.textSource(r)
	}
	if err != nil {
		h.writeError(w, err.Error(), statusFor(err))
		return
	}
	if cleanup == nil {
		cleanup = func() {}
	}

	run, err := h.pipeline.Start(source)
	if err != nil {
		cleanup()
		h.writeError(w, err.Error(), statusFor(err))
		return
	}

	// The run outlives the request
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer cleanup()
		if err := h.pipeline.Execute(context.Background(), run); err != nil {
			slog.Warn("Import run ended without result", "run", run.ID, "err", err)
		}
	}()

	h.writeJSONStatus(w, http.StatusAccepted, map[string]any{
		"id":     run.ID,
		"state":  run.State(),
		"source": run.Source,
	})
}

// textSource reads pasted JSON from the body and checks it parses before a
// run is created
func (h *Handler) textSource(r *http.Request) (importer.Source, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) >= maxUploadSize {
		return nil, fmt.Errorf("%w: body too large (max 10MB)", importer.ErrInvalidInput)
	}

	records, err := importer.ParseInput(string(body))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", importer.ErrInvalidInput)
	}
	return importer.TextSource(body), nil
}

// uploadSource stores an uploaded dump in a temporary file so the loader can
// pick its format by extension. The returned cleanup removes the file.
func (h *Handler) uploadSource(r *http.Request) (importer.Source, func(), error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read file: %v", importer.ErrInvalidInput, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	if len(data) >= maxUploadSize {
		return nil, nil, fmt.Errorf("%w: file too large (max 10MB)", importer.ErrInvalidInput)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	tmp, err := os.CreateTemp("", "unicatalog-upload-*"+ext)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() {
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Unable to remove upload", "path", tmp.Name(), "err", err)
		}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return nil, nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	slog.Info("Import upload received", "filename", header.Filename, "bytes", len(data))
	return importer.NewLoader(tmp.Name()), cleanup, nil
}

// HandleImportDetail serves /api/imports/{id}, /confirm and /discard
func (h *Handler) HandleImportDetail(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/imports/")
	runID, action, _ := strings.Cut(path, "/")

	run, ok := h.getRunOrError(w, runID)
	if !ok {
		return
	}

	switch {
	case action == "" && r.Method == "GET":
		h.writeJSON(w, run.Snapshot())
	case action == "confirm" && r.Method == "POST":
		h.handleConfirm(w, r, run)
	case action == "discard" && r.Method == "POST":
		if err := h.pipeline.Discard(run); err != nil {
			h.writeError(w, err.Error(), statusFor(err))
			return
		}
		h.writeJSON(w, run.Snapshot())
	case action != "" && action != "confirm" && action != "discard":
		h.writeError(w, "Not found", http.StatusNotFound)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request, run *importer.Run) {
	// A client that disconnects mid-confirm must not abort the snapshot write
	result, err := h.pipeline.Commit(context.WithoutCancel(r.Context()), run)
	switch {
	case errors.Is(err, catalog.ErrPersist):
		// Committed in memory only
		h.writeJSONStatus(w, http.StatusInternalServerError, map[string]any{
			"commit":    result,
			"persisted": false,
			"error":     err.Error(),
		})
	case err != nil:
		h.writeError(w, err.Error(), statusFor(err))
	default:
		h.writeJSON(w, map[string]any{
			"commit":    result,
			"persisted": true,
			"total":     h.repo.Len(),
		})
	}
}
