// Package hub talks to the Hugging Face Hub API: token verification,
// model listing, model metadata and raw model card fetches.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Hub endpoint.
const DefaultBaseURL = "https://huggingface.co"

// listLimit caps the bulk model listing.
const listLimit = 2000

// APIError is a non-2xx response from the Hub. The body is kept verbatim
// so callers can match provider error wording.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hub API error %d: %s", e.Status, e.Body)
}

// Identity is the authenticated user returned by token verification.
type Identity struct {
	Name     string `json:"name"`
	Fullname string `json:"fullname"`
	Type     string `json:"type"`
}

// Listing is one entry of the bulk model listing. ModelID is the
// human-facing name when it differs from ID.
type Listing struct {
	ID          string `json:"id"`
	PipelineTag string `json:"pipeline_tag"`
	ModelID     string `json:"modelId"`
}

// Metric is one model-index evaluation result.
type Metric struct {
	Name    string
	Type    string
	Value   any
	Dataset string
}

// Detail is the metadata for a single model.
type Detail struct {
	ID           string
	Author       string
	License      string
	Tags         []string
	Languages    []string
	Datasets     []string
	Downloads    int
	Likes        int
	LastModified time.Time
	Metrics      []Metric
}

// Client is an authenticated Hub API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Hub client for the given base URL and bearer token.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken swaps the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Whoami verifies the token against the Hub identity endpoint. A non-2xx
// status means the token is not accepted.
func (c *Client) Whoami(ctx context.Context) (Identity, error) {
	var id Identity
	if err := c.getJSON(ctx, "/api/whoami-v2", true, &id); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// ListModels fetches warm-inference models, capped at the listing limit.
// Entries are returned as-is; grouping and filtering is the caller's job.
func (c *Client) ListModels(ctx context.Context) ([]Listing, error) {
	q := url.Values{}
	q.Set("inference", "warm")
	q.Set("limit", fmt.Sprint(listLimit))
	q.Add("expand[]", "pipeline_tag")

	var listings []Listing
	if err := c.getJSON(ctx, "/api/models?"+q.Encode(), true, &listings); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return listings, nil
}

// modelResponse is the wire shape of the single-model endpoint.
type modelResponse struct {
	ID           string    `json:"id"`
	Author       string    `json:"author"`
	Downloads    int       `json:"downloads"`
	Likes        int       `json:"likes"`
	LastModified time.Time `json:"lastModified"`
	Tags         []string  `json:"tags"`
	CardData     struct {
		License   string   `json:"license"`
		Languages jsonList `json:"language"`
		Datasets  jsonList `json:"datasets"`
	} `json:"cardData"`
	ModelIndex []struct {
		Results []struct {
			Dataset struct {
				Name string `json:"name"`
			} `json:"dataset"`
			Metrics []struct {
				Name  string `json:"name"`
				Type  string `json:"type"`
				Value any    `json:"value"`
			} `json:"metrics"`
		} `json:"results"`
	} `json:"model-index"`
}

// ModelDetail fetches metadata for one model.
func (c *Client) ModelDetail(ctx context.Context, modelID string) (Detail, error) {
	var resp modelResponse
	if err := c.getJSON(ctx, "/api/models/"+modelID, true, &resp); err != nil {
		return Detail{}, fmt.Errorf("model detail %s: %w", modelID, err)
	}

	d := Detail{
		ID:           resp.ID,
		Author:       resp.Author,
		License:      resp.CardData.License,
		Tags:         resp.Tags,
		Languages:    resp.CardData.Languages,
		Datasets:     resp.CardData.Datasets,
		Downloads:    resp.Downloads,
		Likes:        resp.Likes,
		LastModified: resp.LastModified,
	}
	for _, idx := range resp.ModelIndex {
		for _, res := range idx.Results {
			for _, m := range res.Metrics {
				d.Metrics = append(d.Metrics, Metric{
					Name:    m.Name,
					Type:    m.Type,
					Value:   m.Value,
					Dataset: res.Dataset.Name,
				})
			}
		}
	}
	return d, nil
}

// ModelCard fetches the raw README for a model. This call is deliberately
// unauthenticated; callers treat failure as "no card".
func (c *Client) ModelCard(ctx context.Context, modelID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+modelID+"/resolve/main/README.md", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch model card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read model card: %w", err)
	}
	return string(body), nil
}

// getJSON performs a single GET and decodes the JSON body. No retries:
// every user action gets exactly one attempt.
func (c *Client) getJSON(ctx context.Context, path string, auth bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// jsonList tolerates the Hub's habit of returning either a string or a
// list of strings for card data fields.
type jsonList []string

func (l *jsonList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = []string{one}
	return nil
}
