package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/resale-labs/lister/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testListing(sku string) models.Listing {
	rec := models.AttributeRecord{
		Title:       "Product " + sku,
		Description: "A thing, with commas\nand a newline.",
		Category:    "General",
		Price:       decimal.NewFromFloat(12.34),
		Brand:       "Unknown",
		Material:    "Cotton",
		Size:        "M",
		Color:       "Red",
		Condition:   "Used",
	}
	rec.ApplyFallbacks()
	return models.Listing{
		SKU:      sku,
		Record:   rec,
		PhotoIDs: []string{"aaa", "bbb", "ccc"},
	}
}

func TestUpsertAndGetListing(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpsertListing(testListing("S1")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := s.GetListing("S1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Record.Title != "Product S1" {
		t.Errorf("Unexpected title %q", got.Record.Title)
	}
	if got.Record.Price.StringFixed(2) != "12.34" {
		t.Errorf("Unexpected price %s", got.Record.Price)
	}
	if len(got.PhotoIDs) != 3 || got.PhotoIDs[0] != "aaa" {
		t.Errorf("Unexpected photo list %v", got.PhotoIDs)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set by the database")
	}
}

func TestUpsertReplacesExistingSKU(t *testing.T) {
	s := openTestStore(t)

	first := testListing("S1")
	if err := s.UpsertListing(first); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	second := testListing("S1")
	second.Record.Title = "Replacement"
	second.Record.Price = decimal.NewFromFloat(99.99)
	second.PhotoIDs = []string{"zzz"}
	if err := s.UpsertListing(second); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	got, err := s.GetListing("S1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Record.Title != "Replacement" {
		t.Errorf("Expected full replacement, got title %q", got.Record.Title)
	}
	if len(got.PhotoIDs) != 1 || got.PhotoIDs[0] != "zzz" {
		t.Errorf("Expected replaced photo list, got %v", got.PhotoIDs)
	}

	listings, err := s.ListListings()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("Expected exactly one row for the SKU, got %d", len(listings))
	}
}

func TestGetListingMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetListing("nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestFeedbackNewestFirstAndLimited(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 5; i++ {
		ev := models.CorrectionEvent{
			Field:       "Brand",
			Original:    "Unknown",
			Corrected:   string(rune('A' + i)),
			ProductType: "Jeans",
		}
		if err := s.InsertFeedback(ev); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	events, err := s.RecentFeedback(3)
	if err != nil {
		t.Fatalf("RecentFeedback failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	// Newest first: the last insert comes back first.
	if events[0].Corrected != "E" || events[2].Corrected != "C" {
		t.Errorf("Expected newest-first order, got %s..%s", events[0].Corrected, events[2].Corrected)
	}
}

func TestCounts(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpsertListing(testListing("S1")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.InsertFeedback(models.CorrectionEvent{Field: "Size", Original: "N/A", Corrected: "M"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := s.InsertFeedback(models.CorrectionEvent{Field: "Color", Original: "Unknown", Corrected: "Red"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	listings, feedback, err := s.Counts()
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if listings != 1 || feedback != 2 {
		t.Errorf("Expected counts (1, 2), got (%d, %d)", listings, feedback)
	}
}
