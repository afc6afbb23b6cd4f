package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lesmnif/echoes/internal/config"
	"github.com/lesmnif/echoes/internal/pkg/logger"
)

func testClient(t *testing.T, baseURL string) Client {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	c, err := NewClient(&config.Config{
		OpenAIAPIKey:      "test-key",
		OpenAIBaseURL:     baseURL,
		OpenAIModel:       "gpt-4.1",
		GenerationTimeout: 5 * time.Second,
	}, log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func sseEvent(eventType, delta string) string {
	return fmt.Sprintf("event: %s\ndata: {\"type\":%q,\"delta\":%q}\n\n", eventType, eventType, delta)
}

func TestStreamObjectAccumulatesDeltas(t *testing.T) {
	deltas := []string{`{"summary":`, `"short`, ` one"}`}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing auth header, got %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			_, _ = w.Write([]byte(sseEvent("response.output_text.delta", d)))
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)

	var seen []string
	full, err := c.StreamObject(context.Background(), "sys", "usr", "motivational_post",
		map[string]any{"type": "object"},
		func(acc string) { seen = append(seen, acc) })
	if err != nil {
		t.Fatalf("StreamObject: %v", err)
	}

	if full != `{"summary":"short one"}` {
		t.Fatalf("full=%q", full)
	}
	if len(seen) != len(deltas) {
		t.Fatalf("expected %d accumulated callbacks, got %d: %v", len(deltas), len(seen), seen)
	}
	for i := 1; i < len(seen); i++ {
		if !strings.HasPrefix(seen[i], seen[i-1]) {
			t.Fatalf("accumulated text must grow monotonically: %q then %q", seen[i-1], seen[i])
		}
	}
}

func TestStreamObjectHTTPErrorIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"over quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.StreamObject(context.Background(), "sys", "usr", "motivational_post",
		map[string]any{"type": "object"}, nil)
	if err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
	var httpErr *openAIHTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected openAIHTTPError 429, got %v", err)
	}
}

func TestStreamObjectMidStreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(sseEvent("response.output_text.delta", `{"summary":"cut`)))
		_, _ = w.Write([]byte("data: {\"error\":{\"message\":\"backend died\"}}\n\n"))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	var calls int
	_, err := c.StreamObject(context.Background(), "sys", "usr", "motivational_post",
		map[string]any{"type": "object"},
		func(string) { calls++ })
	if err == nil {
		t.Fatalf("expected mid-stream error to surface")
	}
	if calls != 1 {
		t.Fatalf("partial deltas before the error should still be forwarded, calls=%d", calls)
	}
}
