package opponent

import (
	"math/rand"

	"github.com/Abel5173/pulsecode/pulse"
)

// Tier names the difficulty bands a human's skill rating maps into.
type Tier string

const (
	TierLow  Tier = "low"
	TierMid  Tier = "mid"
	TierHigh Tier = "high"
)

// Fixed rating thresholds for tier selection.
const (
	midRatingFloor  = 1100
	highRatingFloor = 1400
)

// TierForRating maps a persisted skill rating to a difficulty tier.
func TierForRating(rating int) Tier {
	switch {
	case rating >= highRatingFloor:
		return TierHigh
	case rating >= midRatingFloor:
		return TierMid
	default:
		return TierLow
	}
}

// Strategy produces the opponent's next guess when the remote generator
// is unavailable or returns garbage, and names itself for prompting.
type Strategy interface {
	Name() string
	// Fallback must always return a valid code; it is the deterministic
	// floor under the remote text generator.
	Fallback(history []pulse.GuessRecord, rng *rand.Rand) pulse.Code
}

// StrategyForTier is a fixed lookup: low=random, mid=logical, high=aggressive.
func StrategyForTier(tier Tier) Strategy {
	switch tier {
	case TierHigh:
		return aggressiveStrategy{}
	case TierMid:
		return logicalStrategy{}
	default:
		return randomStrategy{}
	}
}

// StrategyByName resolves a persisted strategy tag, defaulting to random.
func StrategyByName(name string) Strategy {
	switch name {
	case "aggressive":
		return aggressiveStrategy{}
	case "logical":
		return logicalStrategy{}
	default:
		return randomStrategy{}
	}
}

// randomStrategy rolls fresh codes, avoiding exact repeats.
type randomStrategy struct{}

func (randomStrategy) Name() string { return "random" }

func (randomStrategy) Fallback(history []pulse.GuessRecord, rng *rand.Rand) pulse.Code {
	tried := make(map[pulse.Code]bool, len(history))
	for _, h := range history {
		tried[h.Guess] = true
	}
	for i := 0; i < 64; i++ {
		if c := pulse.Generate(rng); !tried[c] {
			return c
		}
	}
	return pulse.Generate(rng)
}

// logicalStrategy only plays codes consistent with every past result.
type logicalStrategy struct{}

func (logicalStrategy) Name() string { return "logical" }

func (logicalStrategy) Fallback(history []pulse.GuessRecord, rng *rand.Rand) pulse.Code {
	if cands := consistentCandidates(history); len(cands) > 0 {
		return cands[rng.Intn(len(cands))]
	}
	// History contradicts itself (should not happen); roll fresh.
	return randomStrategy{}.Fallback(history, rng)
}

// aggressiveStrategy filters like logical but leans on the digits of
// the best-scoring guess so far, pressing confirmed information.
type aggressiveStrategy struct{}

func (aggressiveStrategy) Name() string { return "aggressive" }

func (aggressiveStrategy) Fallback(history []pulse.GuessRecord, rng *rand.Rand) pulse.Code {
	cands := consistentCandidates(history)
	if len(cands) == 0 {
		return randomStrategy{}.Fallback(history, rng)
	}
	best := bestGuess(history)
	if best == "" {
		return cands[rng.Intn(len(cands))]
	}
	top, topScore := []pulse.Code(nil), -1
	for _, c := range cands {
		s := sharedDigits(c, best)
		if s > topScore {
			top, topScore = top[:0], s
		}
		if s == topScore {
			top = append(top, c)
		}
	}
	return top[rng.Intn(len(top))]
}

// consistentCandidates enumerates every valid code that would have
// produced exactly the recorded results. The space is small (5040),
// so brute force is fine.
func consistentCandidates(history []pulse.GuessRecord) []pulse.Code {
	var out []pulse.Code
	digits := []byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	buf := make([]byte, 0, pulse.CodeLen)
	used := make([]bool, 10)
	var walk func()
	walk = func() {
		if len(buf) == pulse.CodeLen {
			c := pulse.Code(buf)
			for _, h := range history {
				if pulse.Score(h.Guess, c) != h.Result {
					return
				}
			}
			out = append(out, c)
			return
		}
		for i, d := range digits {
			if used[i] {
				continue
			}
			used[i] = true
			buf = append(buf, d)
			walk()
			buf = buf[:len(buf)-1]
			used[i] = false
		}
	}
	walk()
	return out
}

// bestGuess returns the past guess with the most hits+flashes.
func bestGuess(history []pulse.GuessRecord) pulse.Code {
	var best pulse.Code
	bestScore := -1
	for _, h := range history {
		if s := h.Result.Hits*2 + h.Result.Flashes; s > bestScore {
			best, bestScore = h.Guess, s
		}
	}
	return best
}

func sharedDigits(a, b pulse.Code) int {
	n := 0
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				n++
				break
			}
		}
	}
	return n
}
