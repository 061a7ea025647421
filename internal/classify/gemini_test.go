package classify

import (
	"strings"
	"testing"

	"github.com/globapay/txfeed/internal/domain"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "already clean",
			raw:  `{"items": []}`,
			want: `{"items": []}`,
		},
		{
			name: "json code fence",
			raw:  "```json\n{\"items\": []}\n```",
			want: `{"items": []}`,
		},
		{
			name: "bare code fence",
			raw:  "```\n{\"items\": []}\n```",
			want: `{"items": []}`,
		},
		{
			name: "chatter around the object",
			raw:  "Here you go:\n{\"items\": [{\"id\": \"a\", \"category\": \"Other\"}]}\nHope that helps!",
			want: `{"items": [{"id": "a", "category": "Other"}]}`,
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n {\"items\": []} \n ",
			want: `{"items": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.raw); got != tt.want {
				t.Errorf("cleanModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildBatchPrompt(t *testing.T) {
	merchant := "Blue Bottle"
	name := "BLUE BOTTLE COFFEE"
	txs := []domain.Transaction{
		{ID: "tx-1", Name: &name, Amount: 4.5, Date: "2024-01-01", MerchantName: &merchant, SourceCategory: []string{"Food and Drink"}},
		{ID: "tx-2", Amount: 12, Date: "2024-01-02"},
	}

	prompt, err := buildBatchPrompt(txs)
	if err != nil {
		t.Fatalf("buildBatchPrompt() error: %v", err)
	}

	for _, c := range domain.Categories() {
		if !strings.Contains(prompt, string(c)) {
			t.Errorf("prompt missing category %q", c)
		}
	}
	if !strings.Contains(prompt, `"tx-1"`) || !strings.Contains(prompt, `"tx-2"`) {
		t.Error("prompt must include every transaction id")
	}
	if !strings.Contains(prompt, `"Unknown"`) {
		t.Error("nil names must be sent as the Unknown placeholder")
	}
	if !strings.Contains(prompt, "JSON only") {
		t.Error("prompt must pin the model to JSON output")
	}
}
