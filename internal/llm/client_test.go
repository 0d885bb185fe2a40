package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// chatServer fakes the chat completions endpoint, capturing the request
// body and replying with the given assistant content.
func chatServer(t *testing.T, content string, gotReq *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("request path = %s, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", got)
		}
		if gotReq != nil {
			if err := json.NewDecoder(r.Body).Decode(gotReq); err != nil {
				t.Errorf("decoding request: %v", err)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}))
}

func TestComplete(t *testing.T) {
	var gotReq chatRequest
	srv := chatServer(t, `{"next_move": "bank"}`, &gotReq)
	defer srv.Close()

	client := NewClient(
		WithBaseURL(srv.URL),
		WithAPIKey("test-key"),
		WithModel("test-model"),
		WithTemperature(0.5))

	content, err := client.Complete(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if content != `{"next_move": "bank"}` {
		t.Errorf("Complete() = %q", content)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("request model = %q, want test-model", gotReq.Model)
	}
	if gotReq.Temperature != 0.5 {
		t.Errorf("request temperature = %v, want 0.5", gotReq.Temperature)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("request response_format = %+v, want json_object", gotReq.ResponseFormat)
	}
	if len(gotReq.Messages) != 2 ||
		gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "system text" ||
		gotReq.Messages[1].Role != "user" || gotReq.Messages[1].Content != "user text" {
		t.Errorf("request messages = %+v", gotReq.Messages)
	}
}

func TestComplete_Errors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
			t.Error("Complete() should fail on 503")
		}
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer srv.Close()

		client := NewClient(WithBaseURL(srv.URL))
		if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
			t.Error("Complete() should fail with no choices")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient(WithBaseURL("http://localhost:0"))
		if _, err := client.Complete(ctx, "s", "u"); err == nil {
			t.Error("Complete() should fail on canceled context")
		}
	})
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient()
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
	if client.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", client.Model(), DefaultModel)
	}
	if client.temperature != DefaultTemperature {
		t.Errorf("temperature = %v, want %v", client.temperature, DefaultTemperature)
	}
}
