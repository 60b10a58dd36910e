package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/resale-labs/lister/internal/gemini"
	"github.com/resale-labs/lister/internal/prompt"
)

// handleProcess runs inference for every SKU group in the batch. One group's
// failure never aborts the run; degraded results carry a warning instead.
func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request, batchID string) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	b, ok := h.getBatchOrError(w, batchID)
	if !ok {
		return
	}

	skus := b.SKUs()
	if len(skus) == 0 {
		h.writeError(w, "Batch has no SKU groups to process", http.StatusBadRequest)
		return
	}

	settings := h.settings()
	adapter := gemini.New(settings.GeminiAPIKey, settings.GeminiModel)

	corrections, err := h.store.RecentFeedback(promptCorrectionLimit)
	if err != nil {
		slog.Warn("Failed to load recent corrections, prompting without them", "err", err)
		corrections = nil
	}

	timeout := time.Duration(settings.InferTimeoutSeconds) * time.Second
	results := make([]gemini.Result, 0, len(skus))

	for _, sku := range skus {
		promptText := prompt.Compose(sku, settings.TitleFormula, settings.PricingRules, corrections)

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		res := adapter.Infer(ctx, sku, b.PhotosFor(sku), promptText)
		cancel()

		b.SetDraft(sku, res.Record)
		results = append(results, res)
	}

	slog.Info("Processed batch", "batch_id", batchID, "groups", len(skus), "inference_enabled", adapter.Enabled())
	h.writeJSON(w, map[string]any{
		"batch_id": batchID,
		"results":  results,
	})
}
