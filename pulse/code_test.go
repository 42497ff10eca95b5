package pulse

import (
	"math/rand"
	"testing"
)

func TestGenerateProducesValidCodes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		c := Generate(rng)
		if _, err := Parse(string(c)); err != nil {
			t.Fatalf("generated code %q failed validation: %v", c, err)
		}
	}
}

func TestParseRejectsBadShapes(t *testing.T) {
	bad := []string{"", "123", "12345", "12a4", "1123", "  12", "١٢٣٤"}
	for _, s := range bad {
		if _, err := Parse(s); err == nil {
			t.Fatalf("Parse(%q) accepted an invalid candidate", s)
		}
	}
	if _, err := Parse(" 1234 "); err != nil {
		t.Fatalf("Parse should trim surrounding whitespace: %v", err)
	}
}

func TestScoreScenarios(t *testing.T) {
	cases := []struct {
		secret, guess string
		want          Result
	}{
		{"1234", "1234", Result{Hits: 4}},
		{"1234", "4321", Result{Flashes: 4}},
		{"1234", "1325", Result{Hits: 1, Flashes: 2, Static: 1}},
		{"1234", "5678", Result{Static: 4}},
		{"0918", "0789", Result{Hits: 1, Flashes: 2, Static: 1}},
	}
	for _, c := range cases {
		got := Score(Code(c.guess), Code(c.secret))
		if got != c.want {
			t.Fatalf("Score(%s vs %s) = %+v, want %+v", c.guess, c.secret, got, c.want)
		}
	}
}

func TestScoreComponentsAlwaysSumToFour(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		guess, secret := Generate(rng), Generate(rng)
		r := Score(guess, secret)
		if r.Hits+r.Flashes+r.Static != CodeLen {
			t.Fatalf("Score(%s vs %s) components sum to %d", guess, secret, r.Hits+r.Flashes+r.Static)
		}
	}
}

func TestScoreSelfIsAllHits(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		c := Generate(rng)
		if r := Score(c, c); !r.Winning() || r.Flashes != 0 || r.Static != 0 {
			t.Fatalf("Score(%s vs itself) = %+v", c, r)
		}
	}
}
