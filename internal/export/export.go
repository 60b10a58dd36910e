package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/resale-labs/lister/internal/models"
)

// Header is the column order for tabular listing exports.
var Header = []string{"SKU", "Title", "Price", "Category", "Brand", "Material", "Size", "Color", "Condition", "Description"}

// WriteCSV writes listings as CSV with a header row. encoding/csv handles
// quoting for embedded commas and newlines.
func WriteCSV(w io.Writer, listings []models.Listing) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, l := range listings {
		row := []string{
			l.SKU,
			l.Record.Title,
			l.Record.Price.StringFixed(2),
			l.Record.Category,
			l.Record.Brand,
			l.Record.Material,
			l.Record.Size,
			l.Record.Color,
			l.Record.Condition,
			l.Record.Description,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %q: %w", l.SKU, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ListingRow is the flat schema used for Parquet exports.
type ListingRow struct {
	SKU         string  `parquet:"sku"`
	Title       string  `parquet:"title"`
	Price       float64 `parquet:"price"`
	Category    string  `parquet:"category"`
	Brand       string  `parquet:"brand"`
	Material    string  `parquet:"material"`
	Size        string  `parquet:"size"`
	Color       string  `parquet:"color"`
	Condition   string  `parquet:"condition"`
	Description string  `parquet:"description"`
}

// WriteParquet writes listings as a Parquet file with one row per listing.
func WriteParquet(w io.Writer, listings []models.Listing) error {
	rows := make([]ListingRow, 0, len(listings))
	for _, l := range listings {
		price, _ := l.Record.Price.Round(2).Float64()
		rows = append(rows, ListingRow{
			SKU:         l.SKU,
			Title:       l.Record.Title,
			Price:       price,
			Category:    l.Record.Category,
			Brand:       l.Record.Brand,
			Material:    l.Record.Material,
			Size:        l.Record.Size,
			Color:       l.Record.Color,
			Condition:   l.Record.Condition,
			Description: l.Record.Description,
		})
	}

	pw := parquet.NewGenericWriter[ListingRow](w)
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
