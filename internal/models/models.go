package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fallback values used whenever a listing field cannot be determined.
// Every AttributeRecord leaving the inference path is fully populated;
// downstream code never checks for missing fields.
const (
	FallbackCategory    = "General"
	FallbackBrand       = "Unknown"
	FallbackProductType = "Unknown"
	FallbackMaterial    = "Unknown"
	FallbackSize        = "N/A"
	FallbackColor       = "Unknown"
	FallbackCondition   = "Used"
)

// AttributeRecord holds the inferred or edited listing fields for one
// product group.
type AttributeRecord struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	Price         decimal.Decimal   `json:"price"`
	Brand         string            `json:"brand"`
	ProductType   string            `json:"product_type"`
	Material      string            `json:"material"`
	Size          string            `json:"size"`
	Color         string            `json:"color"`
	Condition     string            `json:"condition"`
	Features      []string          `json:"features"`
	ItemSpecifics map[string]string `json:"item_specifics"`
}

// ApplyFallbacks fills any empty field with its fallback value, rounds the
// price to cents and clamps it non-negative.
func (r *AttributeRecord) ApplyFallbacks() {
	if r.Category == "" {
		r.Category = FallbackCategory
	}
	if r.Brand == "" {
		r.Brand = FallbackBrand
	}
	if r.ProductType == "" {
		r.ProductType = FallbackProductType
	}
	if r.Material == "" {
		r.Material = FallbackMaterial
	}
	if r.Size == "" {
		r.Size = FallbackSize
	}
	if r.Color == "" {
		r.Color = FallbackColor
	}
	if r.Condition == "" {
		r.Condition = FallbackCondition
	}
	if r.Features == nil {
		r.Features = []string{}
	}
	if r.ItemSpecifics == nil {
		r.ItemSpecifics = map[string]string{}
	}
	r.Price = r.Price.Round(2)
	if r.Price.IsNegative() {
		r.Price = decimal.Zero
	}
}

// FallbackRecord returns a placeholder record carrying the given title and
// description with every other field at its fallback value.
func FallbackRecord(title, description string) AttributeRecord {
	r := AttributeRecord{
		Title:       title,
		Description: description,
	}
	r.ApplyFallbacks()
	return r
}

// Listing is the persisted, final form of an AttributeRecord bound to a SKU
// and its photo identifiers.
type Listing struct {
	SKU       string          `json:"sku"`
	Record    AttributeRecord `json:"record"`
	PhotoIDs  []string        `json:"photo_ids"`
	CreatedAt time.Time       `json:"created_at"`
}

// CorrectionEvent records one human edit to one field of an inferred record.
type CorrectionEvent struct {
	ID          int64     `json:"id,omitempty"`
	Field       string    `json:"field_name"`
	Original    string    `json:"original_value"`
	Corrected   string    `json:"corrected_value"`
	ProductType string    `json:"product_type"`
	Context     string    `json:"context,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// PricingRule pairs a natural-language condition with a target price. Rules
// are included verbatim in the inference prompt; they are not evaluated
// locally.
type PricingRule struct {
	Condition string          `json:"condition" yaml:"condition"`
	Price     decimal.Decimal `json:"price" yaml:"price"`
}
