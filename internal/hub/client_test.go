package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWhoami(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/whoami-v2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"name":"someone","type":"user"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "hf_test_token")
	id, err := c.Whoami(context.Background())
	if err != nil {
		t.Fatalf("Whoami() failed: %v", err)
	}
	if id.Name != "someone" {
		t.Errorf("expected name 'someone', got %q", id.Name)
	}
	if gotAuth != "Bearer hf_test_token" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestWhoamiRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad")
	_, err := c.Whoami(context.Background())
	if err == nil {
		t.Fatal("expected error for rejected token")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.Status)
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("inference"); got != "warm" {
			t.Errorf("expected inference=warm, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "2000" {
			t.Errorf("expected limit=2000, got %q", got)
		}
		w.Write([]byte(`[
			{"id":"a","pipeline_tag":"text-generation"},
			{"id":"b"},
			{"id":"c","pipeline_tag":"text-generation","modelId":"org/c"}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	listings, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() failed: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(listings))
	}
	if listings[1].PipelineTag != "" {
		t.Errorf("expected empty pipeline tag for b, got %q", listings[1].PipelineTag)
	}
	if listings[2].ModelID != "org/c" {
		t.Errorf("expected modelId 'org/c', got %q", listings[2].ModelID)
	}
}

func TestModelDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/models/org/model" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"id":"org/model",
			"author":"org",
			"downloads":1200,
			"likes":34,
			"tags":["pytorch","en"],
			"cardData":{"license":"mit","language":"en","datasets":["squad"]},
			"model-index":[{"results":[{
				"dataset":{"name":"squad"},
				"metrics":[{"name":"f1","type":"f1","value":88.2}]
			}]}]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	d, err := c.ModelDetail(context.Background(), "org/model")
	if err != nil {
		t.Fatalf("ModelDetail() failed: %v", err)
	}
	if d.License != "mit" {
		t.Errorf("expected license mit, got %q", d.License)
	}
	if len(d.Languages) != 1 || d.Languages[0] != "en" {
		t.Errorf("expected single language 'en', got %v", d.Languages)
	}
	if len(d.Metrics) != 1 || d.Metrics[0].Dataset != "squad" {
		t.Errorf("unexpected metrics %v", d.Metrics)
	}
}

func TestModelCardUnauthenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("model card fetch must not send credentials")
		}
		w.Write([]byte("# Model\n\nHello."))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	md, err := c.ModelCard(context.Background(), "org/model")
	if err != nil {
		t.Fatalf("ModelCard() failed: %v", err)
	}
	if md != "# Model\n\nHello." {
		t.Errorf("unexpected card content %q", md)
	}
}

func TestModelCardMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if _, err := c.ModelCard(context.Background(), "org/model"); err == nil {
		t.Fatal("expected error for missing card")
	}
}
