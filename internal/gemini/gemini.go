package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/resale-labs/lister/internal/models"
	"github.com/resale-labs/lister/internal/photos"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// maxPhotosPerCall caps how many images are forwarded to the model per
// inference. Excess photos are dropped from the back of the group; this is a
// cost control, not a quality decision.
const maxPhotosPerCall = 5

// maxRawDescriptionChars is how much of an unparseable response is kept as
// the record description.
const maxRawDescriptionChars = 500

// Outcome classifies how an inference attempt resolved. Every outcome still
// carries a fully-populated record; no tier is fatal to the batch.
type Outcome string

const (
	// OutcomeInferred means the model returned a parseable record.
	OutcomeInferred Outcome = "inferred"
	// OutcomeNoCredential means no API key is configured; a placeholder
	// record was returned without any network call.
	OutcomeNoCredential Outcome = "no_credential"
	// OutcomeMalformed means the model responded but not with valid JSON;
	// the raw text was salvaged into the description.
	OutcomeMalformed Outcome = "malformed_response"
	// OutcomeFailed means the call itself failed (network, auth, quota).
	OutcomeFailed Outcome = "transport_error"
)

// Result is the typed outcome of one inference attempt.
type Result struct {
	SKU     string                 `json:"sku"`
	Record  models.AttributeRecord `json:"record"`
	Outcome Outcome                `json:"outcome"`
	Warning string                 `json:"warning,omitempty"`
}

// Adapter wraps the Gemini multimodal API with the degrade-not-fail policy:
// whatever happens, Infer hands back a usable AttributeRecord.
type Adapter struct {
	apiKey string
	model  string

	// generate performs the actual model call; swapped out in tests.
	generate func(ctx context.Context, pics []photos.Photo, promptText string) (string, error)
}

// New returns an adapter for the given credential and model name. An empty
// apiKey disables the external call entirely.
func New(apiKey, model string) *Adapter {
	if model == "" {
		model = DefaultModel
	}
	a := &Adapter{apiKey: apiKey, model: model}
	a.generate = a.callGemini
	return a
}

// Enabled reports whether a credential is configured.
func (a *Adapter) Enabled() bool {
	return a.apiKey != ""
}

// Infer sends a group's photos and prompt to the model and normalizes the
// response into an AttributeRecord. At most 5 photos are forwarded, front of
// the sequence first. Infer never returns an error: failures degrade to
// placeholder records and are reported through the Outcome and Warning.
func (a *Adapter) Infer(ctx context.Context, sku string, pics []photos.Photo, promptText string) Result {
	if a.apiKey == "" {
		return Result{
			SKU: sku,
			Record: models.FallbackRecord(
				"Product "+sku,
				"AI processing requires a Gemini API key. Configure one in settings.",
			),
			Outcome: OutcomeNoCredential,
		}
	}

	if len(pics) > maxPhotosPerCall {
		pics = pics[:maxPhotosPerCall]
	}

	raw, err := a.generate(ctx, pics, promptText)
	if err != nil {
		slog.Warn("Inference call failed", "sku", sku, "error", err)
		return Result{
			SKU: sku,
			Record: models.FallbackRecord(
				"Product "+sku+" - Error",
				"Error processing with AI: "+err.Error(),
			),
			Outcome: OutcomeFailed,
			Warning: err.Error(),
		}
	}

	rec, ok := recordFromResponse(raw)
	if !ok {
		slog.Warn("Model response was not valid JSON, salvaging raw text", "sku", sku, "length", len(raw))
		return Result{
			SKU:     sku,
			Record:  models.FallbackRecord("Product "+sku, truncate(raw, maxRawDescriptionChars)),
			Outcome: OutcomeMalformed,
			Warning: "model response was not valid JSON",
		}
	}

	if rec.Title == "" {
		rec.Title = "Product " + sku
	}
	rec.ApplyFallbacks()
	slog.Info("Inferred listing attributes", "sku", sku, "title", rec.Title, "category", rec.Category)
	return Result{SKU: sku, Record: rec, Outcome: OutcomeInferred}
}

// callGemini performs the multimodal API call: prompt text first, then up to
// five decoded images, matching the upload order.
func (a *Adapter) callGemini(ctx context.Context, pics []photos.Photo, promptText string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(a.model)

	parts := make([]genai.Part, 0, len(pics)+1)
	parts = append(parts, genai.Text(promptText))
	for _, p := range pics {
		parts = append(parts, genai.ImageData(p.Format, p.Bytes))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini")
}

// recordFromResponse parses the model output as a JSON attribute record,
// tolerating markdown code fences around the object.
func recordFromResponse(raw string) (models.AttributeRecord, bool) {
	cleaned := stripFences(raw)

	var rec models.AttributeRecord
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return models.AttributeRecord{}, false
	}
	return rec, true
}

// stripFences removes a surrounding markdown code block, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// truncate hard-cuts s to at most n characters.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
