package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/resale-labs/lister/internal/models"
)

// handleReview accepts the human-reviewed record for one SKU, records every
// field-level edit as a correction, and persists the listing.
func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request, batchID string) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	b, ok := h.getBatchOrError(w, batchID)
	if !ok {
		return
	}

	var request struct {
		SKU    string                 `json:"sku"`
		Record models.AttributeRecord `json:"record"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.SKU == "" {
		h.writeError(w, "sku is required", http.StatusBadRequest)
		return
	}

	draft, exists := b.Draft(request.SKU)
	if !exists {
		h.writeError(w, "No inferred record for SKU "+request.SKU+"; process the batch first", http.StatusConflict)
		return
	}

	events, err := h.materializer.Review(request.SKU, draft, request.Record, b.Groups()[request.SKU])
	if err != nil {
		h.writeError(w, "Failed to save listing: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]any{
		"sku":         request.SKU,
		"corrections": len(events),
	})
}
