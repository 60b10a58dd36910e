package listing

import (
	"fmt"
	"log/slog"

	"github.com/resale-labs/lister/internal/models"
	"github.com/resale-labs/lister/internal/store"
)

// diffFields is the fixed field set compared during review. Description is
// free-form prose and not part of the feedback loop.
var diffFields = []string{"Title", "Price", "Category", "Brand", "Material", "Size", "Color", "Condition"}

// Diff compares an inferred record against its human-edited version
// field by field and returns one correction event per changed field. Prices
// are compared by their cent-rounded values so representation noise never
// produces a spurious correction. The product type recorded with each event
// is the edited record's category.
func Diff(original, edited models.AttributeRecord) []models.CorrectionEvent {
	var events []models.CorrectionEvent
	for _, field := range diffFields {
		orig := fieldValue(original, field)
		edit := fieldValue(edited, field)
		if orig != edit {
			events = append(events, models.CorrectionEvent{
				Field:       field,
				Original:    orig,
				Corrected:   edit,
				ProductType: edited.Category,
			})
		}
	}
	return events
}

func fieldValue(r models.AttributeRecord, field string) string {
	switch field {
	case "Title":
		return r.Title
	case "Price":
		return r.Price.Round(2).StringFixed(2)
	case "Category":
		return r.Category
	case "Brand":
		return r.Brand
	case "Material":
		return r.Material
	case "Size":
		return r.Size
	case "Color":
		return r.Color
	case "Condition":
		return r.Condition
	default:
		return ""
	}
}

// Materializer turns reviewed records into persisted listings and feeds the
// edits back into the correction log.
type Materializer struct {
	store *store.Store
}

// NewMaterializer creates a materializer backed by the given store.
func NewMaterializer(s *store.Store) *Materializer {
	return &Materializer{store: s}
}

// Review diffs the edited record against the inferred original, appends every
// correction to the feedback log, then persists the edited record as the
// listing for sku. The feedback writes and the listing upsert are separate
// statements; a crash in between leaves an accepted inconsistency rather
// than a partial row.
func (m *Materializer) Review(sku string, original, edited models.AttributeRecord, photoIDs []string) ([]models.CorrectionEvent, error) {
	edited.ApplyFallbacks()

	events := Diff(original, edited)
	for _, ev := range events {
		if err := m.store.InsertFeedback(ev); err != nil {
			return events, fmt.Errorf("failed to record correction for %q: %w", sku, err)
		}
	}
	if len(events) > 0 {
		slog.Info("Recorded corrections", "sku", sku, "count", len(events))
	}

	if err := m.Persist(sku, edited, photoIDs); err != nil {
		return events, err
	}
	return events, nil
}

// Persist upserts the listing for sku. Re-persisting a SKU fully replaces
// the earlier listing, photo list included (last write wins).
func (m *Materializer) Persist(sku string, rec models.AttributeRecord, photoIDs []string) error {
	rec.ApplyFallbacks()
	l := models.Listing{
		SKU:      sku,
		Record:   rec,
		PhotoIDs: photoIDs,
	}
	if err := m.store.UpsertListing(l); err != nil {
		return err
	}
	slog.Info("Persisted listing", "sku", sku, "photos", len(photoIDs))
	return nil
}
