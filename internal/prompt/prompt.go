package prompt

import (
	"fmt"
	"strings"

	"github.com/resale-labs/lister/internal/models"
)

// DefaultTitleFormula is used when no title template is configured. The
// bracketed placeholders are passed through to the model uninterpreted; the
// model performs the substitution, not this package.
const DefaultTitleFormula = "[Brand] [Product_Type] Size [Size] [Color] [Condition]"

// Compose assembles the instruction text for one product group. It is pure,
// deterministic string assembly: role framing and SKU, the literal title
// formula, the pricing rules verbatim, the most recent corrections, and the
// output schema the model must follow. No validation or retry logic lives
// here.
func Compose(sku, titleFormula string, rules []models.PricingRule, corrections []models.CorrectionEvent) string {
	if titleFormula == "" {
		titleFormula = DefaultTitleFormula
	}

	var pricing strings.Builder
	pricing.WriteString("\n\nPRICING RULES:\n")
	for _, rule := range rules {
		fmt.Fprintf(&pricing, "- If %s, set price to $%s\n", rule.Condition, rule.Price.StringFixed(2))
	}

	var feedback strings.Builder
	if len(corrections) > 0 {
		feedback.WriteString("\n\nLEARN FROM THESE CORRECTIONS:\n")
		for _, c := range corrections {
			fmt.Fprintf(&feedback, "- For %s, when %s was '%s', user corrected to '%s'\n",
				c.ProductType, c.Field, c.Original, c.Corrected)
		}
	}

	return fmt.Sprintf(`You are an expert marketplace listing creator. Analyze these product images and create a professional listing.

SKU: %s

TITLE FORMULA: %s
%s%s

Analyze the images and provide the following in JSON format:
{
    "title": "Professional listing title following the formula",
    "description": "Detailed product description (3-4 paragraphs)",
    "category": "Most specific marketplace category",
    "price": 0.00,
    "brand": "Brand name or 'Unbranded'",
    "product_type": "Specific product type",
    "material": "Primary material",
    "size": "Size or 'N/A'",
    "color": "Primary color",
    "condition": "New/Used/Pre-owned",
    "features": ["feature1", "feature2", "feature3"],
    "item_specifics": {"key": "value"}
}

Be specific and accurate. Use the title formula exactly.`,
		sku, titleFormula, pricing.String(), feedback.String())
}
