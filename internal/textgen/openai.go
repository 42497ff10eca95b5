// Package textgen implements the remote text-generation collaborator
// against the OpenAI responses endpoint. Callers treat it as fallible;
// the opponent package owns the fallbacks.
package textgen

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

	"github.com/rs/zerolog"

	"github.com/Abel5173/pulsecode/pulse/opponent"
)

const (
	defaultResponsesURL = "https://api.openai.com/v1/responses"
	defaultModel        = "gpt-4o-mini"
	defaultTimeout      = 10 * time.Second
)

// Config configures the OpenAI client endpoint and HTTP behavior.
type Config struct {
	APIKey       string
	Model        string
	ResponsesURL string
	HTTPClient   *http.Client
	Timeout      time.Duration
}

// OpenAI talks to the responses endpoint over plain HTTP.
type OpenAI struct {
	cfg Config
	log zerolog.Logger
}

// NewOpenAI builds a client, filling in endpoint and model defaults.
func NewOpenAI(cfg Config, log zerolog.Logger) *OpenAI {
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = defaultResponsesURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &OpenAI{cfg: cfg, log: log}
}

// NewFromEnv returns a client when OPENAI_API_KEY is set, nil otherwise.
// A nil generator leaves opponents running purely on their strategies.
func NewFromEnv(log zerolog.Logger) opponent.TextGenerator {
	key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if key == "" {
		return nil
	}
	return NewOpenAI(Config{
		APIKey: key,
		Model:  strings.TrimSpace(os.Getenv("OPENAI_MODEL")),
	}, log)
}

// NextGuess asks the model for the opponent's next code given the
// session history so far.
func (c *OpenAI) NextGuess(ctx context.Context, req opponent.GuessRequest) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "You are playing a code-breaking game in a %s style. ", req.Strategy)
	b.WriteString("The secret is 4 distinct decimal digits. Your guesses so far:\n")
	if len(req.History) == 0 {
		b.WriteString("(none yet)\n")
	}
	for _, h := range req.History {
		fmt.Fprintf(&b, "%s -> %d hits, %d flashes, %d static\n",
			h.Guess, h.Result.Hits, h.Result.Flashes, h.Result.Static)
	}
	b.WriteString("Reply with your next guess: exactly 4 distinct digits, nothing else.")

	out, err := c.invoke(ctx, b.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Narrate asks for one short in-character line about a scored guess.
func (c *OpenAI) Narrate(ctx context.Context, req opponent.NarrationRequest) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, %s. Speak in a %s voice. ",
		req.Persona.Name, req.Persona.Tagline, req.Persona.Style)
	fmt.Fprintf(&b, "A player just guessed %s and scored %d hits, %d flashes, %d static; their stress is %d/100. ",
		req.Guess, req.Result.Hits, req.Result.Flashes, req.Result.Static, req.Stress)
	b.WriteString("React in one short line. Never reveal the secret code.")

	out, err := c.invoke(ctx, b.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

type responsesRequest struct {
	Model           string `json:"model"`
	Input           string `json:"input"`
	MaxOutputTokens int    `json:"max_output_tokens,omitempty"`
}

type responsesReply struct {
	Output []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *OpenAI) invoke(ctx context.Context, input string) (string, error) {
	payload, err := json.Marshal(responsesRequest{
		Model:           c.cfg.Model,
		Input:           input,
		MaxOutputTokens: 120,
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ResponsesURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("text generation request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text generation status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var reply responsesReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("decode text generation reply: %w", err)
	}
	if reply.Error != nil {
		return "", fmt.Errorf("text generation: %s", reply.Error.Message)
	}
	for _, out := range reply.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				return content.Text, nil
			}
		}
	}
	return "", fmt.Errorf("text generation reply had no output text")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ opponent.TextGenerator = (*OpenAI)(nil)
