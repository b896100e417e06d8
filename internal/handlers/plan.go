package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		h.writeJSON(w, h.plan.Items())
	case "POST":
		var request struct {
			UniversityID string `json:"universityId"`
			ProgramID    string `json:"programId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		if request.UniversityID == "" || request.ProgramID == "" {
			h.writeError(w, "universityId and programId are required", http.StatusBadRequest)
			return
		}

		uni, prog, ok := h.repo.Program(request.UniversityID, request.ProgramID)
		if !ok {
			h.writeError(w, "Program not found", http.StatusNotFound)
			return
		}

		added := h.plan.Add(uni, prog)
		h.writeJSON(w, map[string]any{
			"added": added,
			"items": h.plan.Items(),
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) HandlePlanItem(w http.ResponseWriter, r *http.Request) {
	programID := strings.TrimPrefix(r.URL.Path, "/api/plan/")

	switch r.Method {
	case "GET":
		h.writeJSON(w, map[string]any{
			"programId": programID,
			"inPlan":    h.plan.Contains(programID),
		})
	case "DELETE":
		removed := h.plan.Remove(programID)
		h.writeJSON(w, map[string]any{
			"removed": removed,
			"items":   h.plan.Items(),
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
