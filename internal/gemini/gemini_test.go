package gemini

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/resale-labs/lister/internal/models"
	"github.com/resale-labs/lister/internal/photos"
)

func TestInferWithoutCredential(t *testing.T) {
	a := New("", "")
	called := false
	a.generate = func(ctx context.Context, pics []photos.Photo, promptText string) (string, error) {
		called = true
		return "", nil
	}

	res := a.Infer(context.Background(), "S1", nil, "prompt")

	if called {
		t.Error("Infer must never call the model without a credential")
	}
	if res.Outcome != OutcomeNoCredential {
		t.Errorf("Expected OutcomeNoCredential, got %s", res.Outcome)
	}
	if res.Record.Title != "Product S1" {
		t.Errorf("Expected placeholder title, got %q", res.Record.Title)
	}
	if res.Record.Condition != models.FallbackCondition {
		t.Errorf("Expected fallback condition, got %q", res.Record.Condition)
	}
	if !res.Record.Price.IsZero() {
		t.Errorf("Expected zero price, got %s", res.Record.Price)
	}
}

func TestInferParsesWellFormedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "bare json",
			response: `{"title": "Nike Air Max Size 10 Black Used", "price": 45.994, "category": "Sneakers", "brand": "Nike", "condition": "Used"}`,
		},
		{
			name:     "fenced json",
			response: "```json\n{\"title\": \"Nike Air Max Size 10 Black Used\", \"price\": 45.994, \"category\": \"Sneakers\", \"brand\": \"Nike\", \"condition\": \"Used\"}\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New("key", "")
			a.generate = func(ctx context.Context, pics []photos.Photo, promptText string) (string, error) {
				return tt.response, nil
			}

			res := a.Infer(context.Background(), "S1", nil, "prompt")

			if res.Outcome != OutcomeInferred {
				t.Fatalf("Expected OutcomeInferred, got %s (%s)", res.Outcome, res.Warning)
			}
			if res.Record.Title != "Nike Air Max Size 10 Black Used" {
				t.Errorf("Unexpected title %q", res.Record.Title)
			}
			if got := res.Record.Price.StringFixed(2); got != "45.99" {
				t.Errorf("Expected price rounded to 45.99, got %s", got)
			}
			// Omitted fields must be filled, never absent.
			if res.Record.Material != models.FallbackMaterial {
				t.Errorf("Expected fallback material, got %q", res.Record.Material)
			}
			if res.Record.Size != models.FallbackSize {
				t.Errorf("Expected fallback size, got %q", res.Record.Size)
			}
			if res.Record.Features == nil || res.Record.ItemSpecifics == nil {
				t.Error("Features and item specifics must never be nil")
			}
		})
	}
}

func TestInferMalformedResponse(t *testing.T) {
	long := strings.Repeat("abcde", 120) // 600 chars
	tests := []struct {
		name     string
		response string
		wantDesc string
	}{
		{
			name:     "long text hard cut at 500",
			response: long,
			wantDesc: long[:500],
		},
		{
			name:     "short text kept whole",
			response: "Sorry, I cannot see the images.",
			wantDesc: "Sorry, I cannot see the images.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New("key", "")
			a.generate = func(ctx context.Context, pics []photos.Photo, promptText string) (string, error) {
				return tt.response, nil
			}

			res := a.Infer(context.Background(), "S1", nil, "prompt")

			if res.Outcome != OutcomeMalformed {
				t.Fatalf("Expected OutcomeMalformed, got %s", res.Outcome)
			}
			if res.Record.Title != "Product S1" {
				t.Errorf("Expected placeholder title, got %q", res.Record.Title)
			}
			if res.Record.Description != tt.wantDesc {
				t.Errorf("Expected description to be the raw text (cut at 500), got %d chars", len(res.Record.Description))
			}
			if res.Record.Brand != models.FallbackBrand {
				t.Errorf("Expected fallback brand, got %q", res.Record.Brand)
			}
		})
	}
}

func TestInferTransportFailure(t *testing.T) {
	a := New("key", "")
	a.generate = func(ctx context.Context, pics []photos.Photo, promptText string) (string, error) {
		return "", fmt.Errorf("quota exceeded")
	}

	res := a.Infer(context.Background(), "S1", nil, "prompt")

	if res.Outcome != OutcomeFailed {
		t.Fatalf("Expected OutcomeFailed, got %s", res.Outcome)
	}
	if res.Record.Title != "Product S1 - Error" {
		t.Errorf("Expected error title, got %q", res.Record.Title)
	}
	if !strings.Contains(res.Record.Description, "quota exceeded") {
		t.Errorf("Expected failure message in description, got %q", res.Record.Description)
	}
	if res.Warning == "" {
		t.Error("Expected a warning for the operator")
	}
	if res.Record.Category != models.FallbackCategory {
		t.Errorf("Expected fallback category, got %q", res.Record.Category)
	}
}

func TestInferForwardsAtMostFivePhotos(t *testing.T) {
	pics := make([]photos.Photo, 8)
	for i := range pics {
		pics[i] = photos.Photo{Hash: fmt.Sprintf("h%d", i)}
	}

	a := New("key", "")
	var got []photos.Photo
	a.generate = func(ctx context.Context, forwarded []photos.Photo, promptText string) (string, error) {
		got = forwarded
		return `{"title": "x"}`, nil
	}

	a.Infer(context.Background(), "S1", pics, "prompt")

	if len(got) != 5 {
		t.Fatalf("Expected 5 forwarded photos, got %d", len(got))
	}
	// Front of the sequence wins.
	for i := 0; i < 5; i++ {
		if got[i].Hash != pics[i].Hash {
			t.Errorf("Photo %d: expected %s, got %s", i, pics[i].Hash, got[i].Hash)
		}
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "no fences", in: `{"a": 1}`, want: `{"a": 1}`},
		{name: "json fence", in: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "plain fence", in: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "surrounding whitespace", in: "  {\"a\": 1}  ", want: `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
