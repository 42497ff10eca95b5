package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Abel5173/pulsecode/pulse"
	"github.com/Abel5173/pulsecode/pulse/opponent"
)

func fakeResponses(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		var req responsesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{
				{"content": []map[string]any{{"type": "output_text", "text": text}}},
			},
		})
	}))
}

func newTestClient(url string) *OpenAI {
	return NewOpenAI(Config{APIKey: "test-key", ResponsesURL: url}, zerolog.Nop())
}

func TestNextGuessDecodesOutputText(t *testing.T) {
	srv := fakeResponses(t, http.StatusOK, "4821")
	defer srv.Close()
	c := newTestClient(srv.URL)
	got, err := c.NextGuess(context.Background(), opponent.GuessRequest{
		Strategy: "logical",
		History:  []pulse.GuessRecord{{Guess: "1234", Result: pulse.Result{Flashes: 2, Static: 2}}},
	})
	if err != nil {
		t.Fatalf("NextGuess: %v", err)
	}
	if got != "4821" {
		t.Fatalf("guess = %q", got)
	}
}

func TestNarrateDecodesOutputText(t *testing.T) {
	srv := fakeResponses(t, http.StatusOK, "  Static. Delicious.  ")
	defer srv.Close()
	c := newTestClient(srv.URL)
	got, err := c.Narrate(context.Background(), opponent.NarrationRequest{
		Persona: opponent.NewRegistry().Lookup("mirth"),
		Guess:   "1234",
		Result:  pulse.Result{Static: 4},
		Stress:  40,
	})
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if got != "Static. Delicious." {
		t.Fatalf("line = %q", got)
	}
}

func TestInvokeReportsHTTPFailure(t *testing.T) {
	srv := fakeResponses(t, http.StatusInternalServerError, "")
	defer srv.Close()
	c := newTestClient(srv.URL)
	if _, err := c.NextGuess(context.Background(), opponent.GuessRequest{}); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestInvokeReportsEmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"output":[]}`))
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)
	_, err := c.Narrate(context.Background(), opponent.NarrationRequest{})
	if err == nil || !strings.Contains(err.Error(), "no output text") {
		t.Fatalf("err = %v, want no-output failure", err)
	}
}
