package opponent

import (
	"math/rand"
	"testing"

	"github.com/Abel5173/pulsecode/pulse"
)

func TestTierThresholds(t *testing.T) {
	cases := []struct {
		rating int
		want   Tier
	}{
		{0, TierLow},
		{1000, TierLow},
		{1099, TierLow},
		{1100, TierMid},
		{1399, TierMid},
		{1400, TierHigh},
		{2200, TierHigh},
	}
	for _, c := range cases {
		if got := TierForRating(c.rating); got != c.want {
			t.Fatalf("TierForRating(%d) = %s, want %s", c.rating, got, c.want)
		}
	}
}

func TestStrategyForTierLookup(t *testing.T) {
	if got := StrategyForTier(TierLow).Name(); got != "random" {
		t.Fatalf("low tier strategy = %s", got)
	}
	if got := StrategyForTier(TierMid).Name(); got != "logical" {
		t.Fatalf("mid tier strategy = %s", got)
	}
	if got := StrategyForTier(TierHigh).Name(); got != "aggressive" {
		t.Fatalf("high tier strategy = %s", got)
	}
}

func TestFallbacksAlwaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	history := []pulse.GuessRecord{
		{Guess: "1234", Result: pulse.Result{Hits: 1, Flashes: 2, Static: 1}},
		{Guess: "5678", Result: pulse.Result{Static: 4}},
	}
	for _, st := range []Strategy{randomStrategy{}, logicalStrategy{}, aggressiveStrategy{}} {
		for i := 0; i < 50; i++ {
			c := st.Fallback(history, rng)
			if _, err := pulse.Parse(string(c)); err != nil {
				t.Fatalf("%s fallback produced invalid code %q", st.Name(), c)
			}
		}
	}
}

func TestLogicalFallbackRespectsHistory(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	secret := pulse.Code("0923")
	history := []pulse.GuessRecord{
		{Guess: "1234", Result: pulse.Score("1234", secret)},
		{Guess: "5678", Result: pulse.Score("5678", secret)},
		{Guess: "9012", Result: pulse.Score("9012", secret)},
	}
	for i := 0; i < 30; i++ {
		c := logicalStrategy{}.Fallback(history, rng)
		for _, h := range history {
			if pulse.Score(h.Guess, c) != h.Result {
				t.Fatalf("logical fallback %q inconsistent with recorded result for %q", c, h.Guess)
			}
		}
	}
}

func TestConsistentCandidatesFindsTheSecret(t *testing.T) {
	secret := pulse.Code("4815")
	history := []pulse.GuessRecord{
		{Guess: "0123", Result: pulse.Score("0123", secret)},
		{Guess: "4567", Result: pulse.Score("4567", secret)},
		{Guess: "8901", Result: pulse.Score("8901", secret)},
	}
	cands := consistentCandidates(history)
	if len(cands) == 0 {
		t.Fatal("no candidates for a satisfiable history")
	}
	found := false
	for _, c := range cands {
		if c == secret {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("candidate set of %d codes misses the true secret", len(cands))
	}
}
