package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/resale-labs/lister/internal/export"
)

// HandleListings returns all persisted listings.
func (h *Handler) HandleListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listings, err := h.store.ListListings()
	if err != nil {
		h.writeError(w, "Failed to load listings: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, listings)
}

// HandleListingDetail returns the listing for one SKU.
func (h *Handler) HandleListingDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sku := strings.TrimPrefix(r.URL.Path, "/api/listings/")
	l, err := h.store.GetListing(sku)
	if errors.Is(err, sql.ErrNoRows) {
		h.writeError(w, "Listing not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, "Failed to load listing: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, l)
}

// HandleListingsCSV downloads all listings as a CSV attachment.
func (h *Handler) HandleListingsCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listings, err := h.store.ListListings()
	if err != nil {
		h.writeError(w, "Failed to load listings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("listings_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteCSV(w, listings); err != nil {
		h.writeError(w, "Failed to write CSV: "+err.Error(), http.StatusInternalServerError)
	}
}

// HandleStats reports persisted listing and correction totals.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	listings, feedback, err := h.store.Counts()
	if err != nil {
		h.writeError(w, "Failed to load stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]int{
		"listings":    listings,
		"corrections": feedback,
	})
}
