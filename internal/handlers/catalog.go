package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dadao-education/unicatalog/internal/catalog"
)

func (h *Handler) HandleUniversities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		q := r.URL.Query()
		h.writeJSON(w, h.repo.Filter(catalog.Filter{
			Region: q.Get("region"),
			Query:  q.Get("q"),
		}))
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandleUniversityDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/universities/")
	id, rest, nested := strings.Cut(path, "/")
	u, ok := h.repo.Get(id)
	if !ok {
		h.writeError(w, "University not found", http.StatusNotFound)
		return
	}
	if !nested {
		h.writeJSON(w, u)
		return
	}

	// /api/universities/{id}/departments/{deptId}
	deptID, found := strings.CutPrefix(rest, "departments/")
	if !found || deptID == "" {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}
	dept, ok := h.repo.Department(id, deptID)
	if !ok {
		h.writeError(w, "Department not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, dept)
}

func (h *Handler) HandleCatalogReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.repo.Reset(r.Context()); err != nil {
		h.writeError(w, "Failed to reset catalog: "+err.Error(), http.StatusInternalServerError)
		return
	}
	slog.Info("Catalog reset via API")
	h.writeJSON(w, map[string]any{
		"message":      "Catalog restored to defaults",
		"universities": h.repo.Len(),
	})
}
