package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/resale-labs/lister/internal/batch"
)

// handleGroups assigns unassigned photos to a SKU. Assigning to an existing
// SKU appends to that group.
func (h *Handler) handleGroups(w http.ResponseWriter, r *http.Request, batchID string) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	b, ok := h.getBatchOrError(w, batchID)
	if !ok {
		return
	}

	var request struct {
		SKU      string   `json:"sku"`
		PhotoIDs []string `json:"photo_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := b.Assign(request.SKU, request.PhotoIDs); err != nil {
		var dupErr *batch.DuplicatePhotoError
		var unknownErr *batch.UnknownPhotoError
		switch {
		case errors.As(err, &dupErr), errors.As(err, &unknownErr):
			h.writeError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, batch.ErrNoPhotos), errors.Is(err, batch.ErrEmptySKU):
			h.writeError(w, err.Error(), http.StatusBadRequest)
		default:
			h.writeError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	slog.Info("Assigned photos", "batch_id", batchID, "sku", request.SKU, "photos", len(request.PhotoIDs))
	h.writeJSON(w, map[string]any{
		"sku":        request.SKU,
		"group":      b.Groups()[request.SKU],
		"unassigned": b.UnassignedCount(),
	})
}
