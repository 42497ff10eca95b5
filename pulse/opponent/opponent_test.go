package opponent

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Abel5173/pulsecode/pulse"
)

// scriptedGen fakes the remote collaborator.
type scriptedGen struct {
	guess    string
	guessErr error
	line     string
	lineErr  error
	calls    int
}

func (g *scriptedGen) NextGuess(_ context.Context, _ GuessRequest) (string, error) {
	g.calls++
	return g.guess, g.guessErr
}

func (g *scriptedGen) Narrate(_ context.Context, _ NarrationRequest) (string, error) {
	return g.line, g.lineErr
}

func newTestOpponent(gen TextGenerator) *Opponent {
	return New(NewRegistry().Lookup("vex"), 1000, gen, 21, zerolog.Nop())
}

func TestNextGuessUsesValidRemoteSuggestion(t *testing.T) {
	gen := &scriptedGen{guess: "4821"}
	o := newTestOpponent(gen)
	if got := o.NextGuess(context.Background(), nil); got != "4821" {
		t.Fatalf("guess = %s, want remote suggestion", got)
	}
	if gen.calls != 1 {
		t.Fatalf("generator called %d times", gen.calls)
	}
}

func TestNextGuessFallsBackOnGarbage(t *testing.T) {
	for _, bad := range []string{"", "12", "hello", "1123", "I guess 1234!"} {
		o := newTestOpponent(&scriptedGen{guess: bad})
		got := o.NextGuess(context.Background(), nil)
		if _, err := pulse.Parse(string(got)); err != nil {
			t.Fatalf("fallback for %q produced invalid code %q", bad, got)
		}
	}
}

func TestNextGuessFallsBackOnError(t *testing.T) {
	o := newTestOpponent(&scriptedGen{guessErr: errors.New("model overloaded")})
	got := o.NextGuess(context.Background(), nil)
	if _, err := pulse.Parse(string(got)); err != nil {
		t.Fatalf("fallback after error produced invalid code %q", got)
	}
}

func TestNextGuessRejectsRepeats(t *testing.T) {
	history := []pulse.GuessRecord{{Guess: "4821", Result: pulse.Result{Static: 4}}}
	o := newTestOpponent(&scriptedGen{guess: "4821"})
	got := o.NextGuess(context.Background(), history)
	if got == "4821" {
		t.Fatal("opponent repeated a guess already on record")
	}
	if _, err := pulse.Parse(string(got)); err != nil {
		t.Fatalf("replacement guess invalid: %q", got)
	}
}

func TestNextGuessWithoutGenerator(t *testing.T) {
	o := newTestOpponent(nil)
	got := o.NextGuess(context.Background(), nil)
	if _, err := pulse.Parse(string(got)); err != nil {
		t.Fatalf("offline opponent produced invalid code %q", got)
	}
}

func TestNarrateFallsBackToCannedRotation(t *testing.T) {
	o := newTestOpponent(&scriptedGen{lineErr: errors.New("timeout")})
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		line := o.Narrate(context.Background(), NarrationRequest{Guess: "1234"})
		if line == "" {
			t.Fatal("empty canned line")
		}
		seen[line] = true
	}
	if len(seen) < 2 {
		t.Fatalf("canned lines did not rotate: %v", seen)
	}
}

func TestNarratePrefersRemoteLine(t *testing.T) {
	o := newTestOpponent(&scriptedGen{line: "Your static sings to me."})
	if got := o.Narrate(context.Background(), NarrationRequest{}); got != "Your static sings to me." {
		t.Fatalf("narration = %q", got)
	}
}
