package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/resale-labs/lister/internal/config"
	"github.com/resale-labs/lister/internal/models"
)

// settingsView is the API shape of the settings object. The credential is
// reported only as configured/not configured, never echoed back.
type settingsView struct {
	GeminiKeySet        bool                 `json:"gemini_api_key_set"`
	GeminiModel         string               `json:"gemini_model"`
	TitleFormula        string               `json:"title_formula"`
	PricingRules        []models.PricingRule `json:"pricing_rules"`
	InferTimeoutSeconds int                  `json:"infer_timeout_seconds"`
}

// HandleSettings reads or updates the persisted settings.
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s := h.settings()
		h.writeJSON(w, settingsView{
			GeminiKeySet:        s.GeminiAPIKey != "",
			GeminiModel:         s.GeminiModel,
			TitleFormula:        s.TitleFormula,
			PricingRules:        s.PricingRules,
			InferTimeoutSeconds: s.InferTimeoutSeconds,
		})
	case "PUT":
		var request struct {
			GeminiAPIKey        *string               `json:"gemini_api_key"`
			GeminiModel         *string               `json:"gemini_model"`
			TitleFormula        *string               `json:"title_formula"`
			PricingRules        *[]models.PricingRule `json:"pricing_rules"`
			InferTimeoutSeconds *int                  `json:"infer_timeout_seconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		s := h.settings()
		if request.GeminiAPIKey != nil {
			s.GeminiAPIKey = *request.GeminiAPIKey
		}
		if request.GeminiModel != nil {
			s.GeminiModel = *request.GeminiModel
		}
		if request.TitleFormula != nil {
			s.TitleFormula = *request.TitleFormula
		}
		if request.PricingRules != nil {
			s.PricingRules = *request.PricingRules
		}
		if request.InferTimeoutSeconds != nil {
			s.InferTimeoutSeconds = *request.InferTimeoutSeconds
		}

		if err := config.Save(h.settingsPath, s); err != nil {
			h.writeError(w, "Failed to save settings: "+err.Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, map[string]string{"status": "saved"})
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleFeedback returns the most recent corrections, newest first.
func (h *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := displayCorrectionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	events, err := h.store.RecentFeedback(limit)
	if err != nil {
		h.writeError(w, "Failed to load feedback: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []models.CorrectionEvent{}
	}
	h.writeJSON(w, events)
}
