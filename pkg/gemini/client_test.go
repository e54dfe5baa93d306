package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") == "" {
			t.Errorf("expected api key in query string")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGenerateTextExtractsCandidate(t *testing.T) {
	server := testServer(t, `{"candidates":[{"content":{"parts":[{"text":"A Mughal mausoleum."}]}}]}`)
	client := NewClientWithHTTP(server.Client(), server.URL, "test-key")

	got, err := client.GenerateText(context.Background(), "describe the Taj Mahal")
	if err != nil {
		t.Fatalf("GenerateText returned error: %v", err)
	}
	if got != "A Mughal mausoleum." {
		t.Errorf("text = %q", got)
	}
}

func TestGenerateTextFallsBackWithoutCandidates(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty candidates", `{"candidates":[]}`},
		{"no candidates field", `{}`},
		{"candidate without parts", `{"candidates":[{"content":{"parts":[]}}]}`},
		{"upstream error body", `{"error":{"code":429,"message":"quota"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testServer(t, tt.body)
			client := NewClientWithHTTP(server.Client(), server.URL, "test-key")

			got, err := client.GenerateText(context.Background(), "prompt")
			if err != nil {
				t.Fatalf("absence of a candidate must not be an error, got %v", err)
			}
			if got != FallbackText {
				t.Errorf("text = %q, want fallback %q", got, FallbackText)
			}
		})
	}
}

func TestGenerateTextWithoutKey(t *testing.T) {
	client := NewClient("")
	if client.Configured() {
		t.Errorf("empty key must not count as configured")
	}
	_, err := client.GenerateText(context.Background(), "prompt")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestGenerateTextTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()
	client := NewClientWithHTTP(http.DefaultClient, server.URL, "test-key")

	if _, err := client.GenerateText(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected transport error")
	}
}
