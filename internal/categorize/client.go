package categorize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultEndpoint    = "https://api.openai.com/v1"
	defaultModel       = "gpt-4o-mini"
	defaultHTTPTimeout = 90 * time.Second

	// Transcripts are user dictation, not documents; anything longer than
	// this is clipped before prompting.
	maxTranscriptChars = 24_000
)

// Config describes how to reach the categorization model.
type Config struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

// Client is the HTTP adapter behind Port. One request per call, bearer auth,
// no retries: the caller always has the single-note fallback, so a failed
// call is discarded, not repeated.
type Client struct {
	apiKey string
	model  string
	base   string
	client *http.Client
}

// NewClient builds a Client, filling gaps from MURMUR_* environment
// variables and package defaults.
func NewClient(cfg Config) *Client {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("MURMUR_API_KEY")
	}
	base := strings.TrimRight(cfg.Endpoint, "/")
	if base == "" {
		if env := os.Getenv("MURMUR_ENDPOINT"); env != "" {
			base = strings.TrimRight(env, "/")
		} else {
			base = defaultEndpoint
		}
	}
	model := cfg.Model
	if model == "" {
		if env := os.Getenv("MURMUR_MODEL"); env != "" {
			model = env
		} else {
			model = defaultModel
		}
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{apiKey: apiKey, model: model, base: base, client: client}
}

// Name identifies the configured backend for status lines.
func (c *Client) Name() string {
	return fmt.Sprintf("OpenAI (%s)", c.model)
}

// Categorize sends one transcript and parses the structured reply. The error
// is always nil: transport and parse failures are swallowed here, as close to
// the boundary as possible, and the deterministic fallback comes back
// instead. Nothing above this call should ever observe the raw failure.
func (c *Client) Categorize(ctx context.Context, transcript string, keyTerms []string) (Result, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return Fallback(transcript), nil
	}
	prompt := buildCategorizationPrompt(clipText(transcript, maxTranscriptChars), keyTerms)
	raw, err := c.chat(ctx, prompt)
	if err != nil {
		return Fallback(transcript), nil
	}
	result, err := parseCategorization(raw)
	if err != nil {
		return Fallback(transcript), nil
	}
	return result, nil
}

func (c *Client) chat(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You organize spoken notes into concise task groups."},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.2,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.base)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("categorization API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("categorization API returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func clipText(text string, limit int) string {
	text = strings.TrimSpace(text)
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
