package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/globapay/txfeed/internal/domain"
)

// GeminiLabeler labels transaction batches with one Gemini call per batch.
type GeminiLabeler struct {
	apiKey string
	model  string
}

// NewGeminiLabeler creates a labeler. The caller is responsible for only
// constructing one when an API key is actually configured.
func NewGeminiLabeler(apiKey, model string) *GeminiLabeler {
	return &GeminiLabeler{apiKey: apiKey, model: model}
}

// batchItem is what the model sees per transaction: enough context to pick a
// category, nothing that identifies the account or credential.
type batchItem struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Amount         float64  `json:"amount"`
	Date           string   `json:"date"`
	MerchantName   *string  `json:"merchant_name"`
	SourceCategory []string `json:"source_category"`
}

// LabelBatch sends the whole batch to the model and returns an id→label map.
// It expects the model to return a STRICT JSON object of the shape
// {"items": [{"id": ..., "category": ...}]}.
func (g *GeminiLabeler) LabelBatch(ctx context.Context, txs []domain.Transaction) (map[string]string, error) {
	prompt, err := buildBatchPrompt(txs)
	if err != nil {
		return nil, fmt.Errorf("LabelBatch: building prompt: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("LabelBatch: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("LabelBatch: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("LabelBatch: empty response from model")
	}

	// Clean up Markdown fences / extra text if the model ignored instructions.
	clean := cleanModelJSON(rawText)

	var parsed struct {
		Items []struct {
			ID       string `json:"id"`
			Category string `json:"category"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("LabelBatch: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	labels := make(map[string]string, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID == "" {
			continue
		}
		labels[item.ID] = item.Category
	}
	return labels, nil
}

// buildBatchPrompt constructs the closed instruction: exactly one label per
// input id, drawn from the fixed category set.
func buildBatchPrompt(txs []domain.Transaction) (string, error) {
	items := make([]batchItem, 0, len(txs))
	for _, tx := range txs {
		name := "Unknown"
		if tx.Name != nil {
			name = *tx.Name
		}
		items = append(items, batchItem{
			ID:             tx.ID,
			Name:           name,
			Amount:         tx.Amount,
			Date:           tx.Date,
			MerchantName:   tx.MerchantName,
			SourceCategory: tx.SourceCategory,
		})
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshaling batch: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a financial transaction categorization assistant.\n\n")
	b.WriteString("Your job is to assign EACH transaction to EXACTLY ONE of these five categories:\n")
	for i, c := range domain.Categories() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- Output MUST be JSON only.\n")
	b.WriteString("- For each transaction you are given, choose ONE category.\n")
	b.WriteString("- Allowed category values are EXACTLY the five names listed above.\n")
	b.WriteString("- If you are unsure, choose \"Other\".\n")
	b.WriteString("- Return ONLY valid raw JSON, no code fences, no Markdown.\n\n")
	b.WriteString("Return JSON in this shape:\n")
	b.WriteString("{\"items\": [{\"id\": \"tx-id-1\", \"category\": \"Food & Drinks\"}, {\"id\": \"tx-id-2\", \"category\": \"Other\"}]}\n\n")
	b.WriteString("Here is the array of transactions:\n")
	b.Write(payload)
	b.WriteString("\n")

	return b.String(), nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: keep only from the first '{' to the last '}' if there is
	// still junk around the JSON object.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

var _ Labeler = (*GeminiLabeler)(nil)
