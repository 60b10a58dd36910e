package handlers

import (
	"net/http"
	"strings"
)

// HandleBatches creates a new working batch.
func (h *Handler) HandleBatches(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "POST":
		b := h.batches.Create()
		h.writeJSON(w, map[string]any{
			"batch_id":   b.ID,
			"created_at": b.CreatedAt,
		})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleBatchDetail routes /api/batches/{id} and its subresources.
func (h *Handler) HandleBatchDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/batches/")
	batchID, sub, _ := strings.Cut(rest, "/")

	if batchID == "" {
		h.writeError(w, "Batch ID required", http.StatusBadRequest)
		return
	}

	switch {
	case sub == "":
		h.handleBatch(w, r, batchID)
	case sub == "photos" && r.Method == "POST":
		h.handlePhotoUpload(w, r, batchID)
	case strings.HasPrefix(sub, "photos/") && strings.HasSuffix(sub, "/thumbnail"):
		hash := strings.TrimSuffix(strings.TrimPrefix(sub, "photos/"), "/thumbnail")
		h.handleThumbnail(w, r, batchID, hash)
	case sub == "groups":
		h.handleGroups(w, r, batchID)
	case sub == "process":
		h.handleProcess(w, r, batchID)
	case sub == "review":
		h.handleReview(w, r, batchID)
	default:
		h.writeError(w, "Not found", http.StatusNotFound)
	}
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request, batchID string) {
	b, ok := h.getBatchOrError(w, batchID)
	if !ok {
		return
	}

	switch r.Method {
	case "GET":
		total := b.PhotoCount()
		unassigned := b.UnassignedCount()
		h.writeJSON(w, map[string]any{
			"batch_id":   b.ID,
			"created_at": b.CreatedAt,
			"total":      total,
			"assigned":   total - unassigned,
			"unassigned": b.Unassigned(),
			"groups":     b.Groups(),
		})
	case "DELETE":
		// Starting over is the only way to correct a grouping mistake.
		h.batches.Delete(batchID)
		h.writeJSON(w, map[string]any{"deleted": batchID})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
