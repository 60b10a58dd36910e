package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/resale-labs/lister/internal/batch"
	"github.com/resale-labs/lister/internal/config"
	"github.com/resale-labs/lister/internal/listing"
	"github.com/resale-labs/lister/internal/store"
)

// How many recent corrections feed the prompt vs. the history view.
const (
	promptCorrectionLimit  = 10
	displayCorrectionLimit = 20
)

type Handler struct {
	batches      *batch.Store
	store        *store.Store
	materializer *listing.Materializer
	settingsPath string
}

func New(st *store.Store, settingsPath string) *Handler {
	return &Handler{
		batches:      batch.NewStore(),
		store:        st,
		materializer: listing.NewMaterializer(st),
		settingsPath: settingsPath,
	}
}

// settings re-reads the settings file on every call so edits made through
// the settings API take effect immediately.
func (h *Handler) settings() config.Settings {
	s, err := config.Load(h.settingsPath)
	if err != nil {
		slog.Error("Failed to load settings, using defaults", "err", err)
		s, _ = config.Load("")
	}
	return s
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// Batch helpers
func (h *Handler) getBatchOrError(w http.ResponseWriter, batchID string) (*batch.Batch, bool) {
	b, exists := h.batches.Get(batchID)
	if !exists {
		h.writeError(w, "Batch not found", http.StatusNotFound)
		return nil, false
	}
	return b, true
}
