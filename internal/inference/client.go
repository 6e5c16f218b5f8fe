// Package inference wraps the Hugging Face inference router: one call per
// task type, plus a streamed chat completion for text generation.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultBaseURL is the public inference router.
const DefaultBaseURL = "https://router.huggingface.co"

// autoProvider lets the router pick a backend for the model.
const autoProvider = "auto"

// imageSteps is the fixed diffusion step count for text-to-image.
const imageSteps = 30

// APIError is a non-2xx response from the router. Body is kept verbatim
// so callers can match provider error wording (credit exhaustion in
// particular).
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inference error %d: %s", e.Status, e.Body)
}

// Label is one ranked classification result.
type Label struct {
	Name  string  `json:"label"`
	Score float64 `json:"score"`
}

// Message is one chat turn sent to a text-generation model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chunk is one piece of a streamed chat completion.
type Chunk struct {
	Text string
	Done bool
	Err  error
}

// Client is a bearer-authenticated inference router client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// Model IDs that must go to a specific provider instead of auto
	// routing.
	pinnedProviders map[string]string
}

// New creates an inference client. pinned maps model IDs to a provider
// that overrides automatic selection for that model.
func New(baseURL, token string, pinned map[string]string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		// No client-level timeout: generation can legitimately take
		// minutes and streams stay open for their whole duration.
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
			},
		},
		pinnedProviders: pinned,
	}
}

// SetToken swaps the bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) providerFor(model string) string {
	if p, ok := c.pinnedProviders[model]; ok {
		return p
	}
	return autoProvider
}

func (c *Client) taskURL(model string) string {
	return fmt.Sprintf("%s/%s/models/%s", c.baseURL, c.providerFor(model), model)
}

// post performs a single request. One attempt per user action; retries
// are deliberately not implemented.
func (c *Client) post(ctx context.Context, url, contentType string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		return nil, &APIError{Status: resp.StatusCode, Body: string(b)}
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	resp, err := c.post(ctx, url, "application/json", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postBinary(ctx context.Context, url, contentType string, body []byte) ([]byte, error) {
	resp, err := c.post(ctx, url, contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// TextToImage generates an image from a prompt and returns the raw bytes.
func (c *Client) TextToImage(ctx context.Context, model, prompt string) ([]byte, error) {
	payload := map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"num_inference_steps": imageSteps,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return c.postBinary(ctx, c.taskURL(model), "application/json", body)
}

// TextClassification classifies text and returns labels ranked as the
// provider returned them.
func (c *Client) TextClassification(ctx context.Context, model, text string) ([]Label, error) {
	payload := map[string]any{"inputs": text}

	// The provider returns either [[...]] or [...] depending on the
	// model wrapper.
	var nested [][]Label
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	resp, err := c.post(ctx, c.taskURL(model), "application/json", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}
	var flat []Label
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}
	return flat, nil
}

// Summarization returns the model's summary of the given text.
func (c *Client) Summarization(ctx context.Context, model, text string) (string, error) {
	payload := map[string]any{"inputs": text}

	var out []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := c.postJSON(ctx, c.taskURL(model), payload, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty summarization response")
	}
	return out[0].SummaryText, nil
}

// ImageClassification classifies a raw image.
func (c *Client) ImageClassification(ctx context.Context, model string, image []byte) ([]Label, error) {
	contentType := http.DetectContentType(image)

	resp, err := c.post(ctx, c.taskURL(model), contentType, image)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var labels []Label
	if err := json.NewDecoder(resp.Body).Decode(&labels); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}
	return labels, nil
}

// TextToSpeech synthesizes speech and returns the raw audio bytes.
func (c *Client) TextToSpeech(ctx context.Context, model, text string) ([]byte, error) {
	payload := map[string]any{"inputs": text}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return c.postBinary(ctx, c.taskURL(model), "application/json", body)
}
