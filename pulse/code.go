package pulse

import (
	"math/rand"
	"strings"
)

// CodeLen is the fixed length of every pulse code.
const CodeLen = 4

// Code is an ordered sequence of exactly four distinct decimal digits.
// A Code obtained from Generate or Parse always satisfies that invariant.
type Code string

// Result is the score of one guess against one secret code.
type Result struct {
	Hits    int `json:"hits"`    // right digit, right position
	Flashes int `json:"flashes"` // right digit, wrong position
	Static  int `json:"static"`  // digit absent from the code
}

// Winning reports whether the guess cracked the code outright.
func (r Result) Winning() bool { return r.Hits == CodeLen }

// Generate returns a uniformly random code: a permutation of four
// distinct digits drawn from 0-9.
func Generate(rng *rand.Rand) Code {
	digits := []byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	rng.Shuffle(len(digits), func(i, j int) {
		digits[i], digits[j] = digits[j], digits[i]
	})
	return Code(digits[:CodeLen])
}

// Parse validates a candidate string against the code contract:
// exactly four characters, all decimal digits, no repeats.
// This is the single validation path for human and AI guesses alike.
func Parse(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if len(s) != CodeLen {
		return "", ErrInvalidGuess
	}
	var seen [10]bool
	for i := 0; i < CodeLen; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return "", ErrInvalidGuess
		}
		d := c - '0'
		if seen[d] {
			return "", ErrInvalidGuess
		}
		seen[d] = true
	}
	return Code(s), nil
}

// Score computes hits, flashes and static for a guess against a secret.
// Both arguments must already satisfy the code contract; with valid
// inputs the components always sum to CodeLen.
func Score(guess, secret Code) Result {
	var res Result
	for i := 0; i < CodeLen; i++ {
		if guess[i] == secret[i] {
			res.Hits++
		} else if strings.IndexByte(string(secret), guess[i]) >= 0 {
			res.Flashes++
		}
	}
	res.Static = CodeLen - res.Hits - res.Flashes
	return res
}
