package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/resale-labs/lister/internal/models"
)

// Store persists listings and field corrections in a local sqlite database.
// Batches and photo bytes stay in memory; only these two tables survive the
// process.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		sku         TEXT UNIQUE,
		title       TEXT,
		description TEXT,
		price       REAL,
		category    TEXT,
		material    TEXT,
		size        TEXT,
		color       TEXT,
		condition   TEXT,
		brand       TEXT,
		photos      TEXT,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS feedback (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp       DATETIME DEFAULT CURRENT_TIMESTAMP,
		field_name      TEXT,
		original_value  TEXT,
		corrected_value TEXT,
		product_type    TEXT,
		context         TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_timestamp ON feedback(timestamp);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertListing inserts or fully replaces the listing for a SKU. A second
// persist for the same SKU silently overwrites the first, photos included.
func (s *Store) UpsertListing(l models.Listing) error {
	photosJSON, err := json.Marshal(l.PhotoIDs)
	if err != nil {
		return fmt.Errorf("failed to encode photo list: %w", err)
	}

	price, _ := l.Record.Price.Round(2).Float64()
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO listings
		 (sku, title, description, price, category, material, size, color, condition, brand, photos)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.SKU, l.Record.Title, l.Record.Description, price,
		l.Record.Category, l.Record.Material, l.Record.Size,
		l.Record.Color, l.Record.Condition, l.Record.Brand,
		string(photosJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert listing %q: %w", l.SKU, err)
	}
	return nil
}

// GetListing returns the listing persisted under sku, or sql.ErrNoRows.
func (s *Store) GetListing(sku string) (models.Listing, error) {
	row := s.db.QueryRow(
		`SELECT sku, title, description, price, category, material, size, color, condition, brand, photos, created_at
		 FROM listings WHERE sku = ?`, sku)
	return scanListing(row)
}

// ListListings returns all listings, oldest first.
func (s *Store) ListListings() ([]models.Listing, error) {
	rows, err := s.db.Query(
		`SELECT sku, title, description, price, category, material, size, color, condition, brand, photos, created_at
		 FROM listings ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(row scanner) (models.Listing, error) {
	var l models.Listing
	var price float64
	var photosJSON string

	err := row.Scan(
		&l.SKU, &l.Record.Title, &l.Record.Description, &price,
		&l.Record.Category, &l.Record.Material, &l.Record.Size,
		&l.Record.Color, &l.Record.Condition, &l.Record.Brand,
		&photosJSON, &l.CreatedAt,
	)
	if err != nil {
		return models.Listing{}, err
	}

	l.Record.Price = decimal.NewFromFloat(price).Round(2)
	l.Record.ApplyFallbacks()
	if err := json.Unmarshal([]byte(photosJSON), &l.PhotoIDs); err != nil {
		return models.Listing{}, fmt.Errorf("failed to decode photo list for %q: %w", l.SKU, err)
	}
	return l, nil
}

// InsertFeedback appends one correction event. The log is append-only;
// callers are responsible for only recording true edits.
func (s *Store) InsertFeedback(ev models.CorrectionEvent) error {
	_, err := s.db.Exec(
		`INSERT INTO feedback (field_name, original_value, corrected_value, product_type, context)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.Field, ev.Original, ev.Corrected, ev.ProductType, ev.Context,
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// RecentFeedback returns the newest correction events, newest first,
// truncated to limit.
func (s *Store) RecentFeedback(limit int) ([]models.CorrectionEvent, error) {
	rows, err := s.db.Query(
		`SELECT id, timestamp, field_name, original_value, corrected_value, product_type, context
		 FROM feedback ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var events []models.CorrectionEvent
	for rows.Next() {
		var ev models.CorrectionEvent
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.Field, &ev.Original, &ev.Corrected, &ev.ProductType, &ev.Context); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Counts returns the total number of persisted listings and corrections.
func (s *Store) Counts() (listings, feedback int, err error) {
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM listings`).Scan(&listings); err != nil {
		return 0, 0, err
	}
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM feedback`).Scan(&feedback); err != nil {
		return 0, 0, err
	}
	return listings, feedback, nil
}
