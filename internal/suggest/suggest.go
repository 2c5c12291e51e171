// Package suggest talks to a remote text-generation service and extracts
// structured answers (a price estimate, or a set of item fields) from its
// free-form responses. All parsing and validation of the unreliable gateway
// output lives here; the rest of the system never sees raw text. Results
// are meant for a pending edit buffer and are never written to the store
// directly.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlovrec/curio/internal/model"
)

// Client calls a completion-style endpoint: one HTTP POST per suggestion,
// no retries, no cancellation beyond the request context.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	log         *slog.Logger
}

// Options configure the gateway call.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// NewClient creates a gateway client. The base URL is injectable so tests
// can point it at a local server.
func NewClient(opts Options, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     opts.BaseURL,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		log:         logger.With("adapter", "suggest"),
	}
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// complete sends the prompt and returns the response text. The endpoint
// usually wraps its answer in a completion envelope, but a bare body is
// tolerated too.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("suggest: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("suggest: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NetworkError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var cr completionResponse
	if err := json.Unmarshal(raw, &cr); err == nil && len(cr.Choices) > 0 {
		return cr.Choices[0].Text, nil
	}
	return string(raw), nil
}

// SuggestPrice asks the gateway for a resale estimate of the item and
// extracts a single integer price from whatever text comes back.
func (c *Client) SuggestPrice(ctx context.Context, item model.Item) (int64, error) {
	prompt := fmt.Sprintf(
		"Estimate the current resale price of this collectible: %q, category %s, year %s, "+
			"originally purchased for %s. Answer with a single number, no currency symbol.",
		item.Name, item.Category, item.Year, item.PurchasePrice.StringFixed(2),
	)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return 0, err
	}

	price, err := extractPrice(text)
	if err != nil {
		c.log.Warn("price suggestion unusable", "error", err)
		return 0, err
	}
	return price, nil
}

// extractPrice strips every non-digit character and parses the remainder as
// an integer. This survives prose ("Il prezzo è 250€") as well as JSON
// wrappers ({"prezzo":99}); a response without digits is a ParseError.
func extractPrice(text string) (int64, error) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, &ParseError{Reason: "no digits in response", Raw: text}
	}

	price, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, &ParseError{Reason: "price out of range", Raw: text}
	}
	return price, nil
}

// Fields is the structured answer of a field suggestion: exactly the
// editable item fields the user has not filled in yet.
type Fields struct {
	Category      string          `json:"category"`
	Year          string          `json:"year"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	PurchaseDate  string          `json:"purchaseDate"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	Image         string          `json:"image"`
}

var fieldKeys = []string{"category", "year", "purchasePrice", "purchaseDate", "currentValue", "image"}

// SuggestFields asks the gateway to guess the missing fields for an item
// name. The answer must be a JSON object with exactly the expected keys and
// types; anything else is a ParseError with no partial acceptance.
func (c *Client) SuggestFields(ctx context.Context, name string) (*Fields, error) {
	prompt := fmt.Sprintf(
		"For the collectible item %q, output only a JSON object with exactly these keys: "+
			"category (string), year (string, 4 digits), purchasePrice (number), "+
			"purchaseDate (string, dd/mm/yyyy), currentValue (number), image (string URL). "+
			"No markdown, no explanations.",
		name,
	)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	jsonStr, ok := extractJSON(text)
	if !ok {
		return nil, &ParseError{Reason: "no JSON object in response", Raw: text}
	}

	fields, err := decodeFields(jsonStr, text)
	if err != nil {
		c.log.Warn("field suggestion unusable", "error", err)
		return nil, err
	}
	return fields, nil
}

// extractJSON finds the first complete JSON object in free-form text,
// between the first '{' and the last '}'.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func decodeFields(jsonStr, raw string) (*Fields, error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &object); err != nil {
		return nil, &ParseError{Reason: "response is not a JSON object", Raw: raw}
	}

	if len(object) != len(fieldKeys) {
		return nil, &ParseError{
			Reason: fmt.Sprintf("expected exactly %d keys, got %d", len(fieldKeys), len(object)),
			Raw:    raw,
		}
	}
	for _, key := range fieldKeys {
		if _, ok := object[key]; !ok {
			return nil, &ParseError{Reason: "missing key " + key, Raw: raw}
		}
	}

	var f Fields
	for key, target := range map[string]*string{
		"category":     &f.Category,
		"year":         &f.Year,
		"purchaseDate": &f.PurchaseDate,
		"image":        &f.Image,
	} {
		if err := json.Unmarshal(object[key], target); err != nil {
			return nil, &ParseError{Reason: key + " is not a string", Raw: raw}
		}
	}

	for key, target := range map[string]*decimal.Decimal{
		"purchasePrice": &f.PurchasePrice,
		"currentValue":  &f.CurrentValue,
	} {
		// json.Number only accepts JSON number tokens, which is exactly the
		// strictness the contract asks for.
		var n json.Number
		if err := json.Unmarshal(object[key], &n); err != nil {
			return nil, &ParseError{Reason: key + " is not a number", Raw: raw}
		}
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return nil, &ParseError{Reason: key + " is not a usable number", Raw: raw}
		}
		*target = d
	}

	return &f, nil
}
