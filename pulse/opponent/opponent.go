package opponent

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/Abel5173/pulsecode/pulse"
)

// GuessRequest is the structured context handed to the text generator
// when the opponent needs its next guess.
type GuessRequest struct {
	Strategy string
	History  []pulse.GuessRecord
}

// NarrationRequest is the structured context for persona banter.
type NarrationRequest struct {
	Persona Persona
	Actor   string
	Guess   pulse.Code
	Result  pulse.Result
	Stress  int
}

// TextGenerator is the remote text-generation collaborator. Both calls
// are fallible and latency-bearing; every caller in this package masks
// failures with a synchronous fallback.
type TextGenerator interface {
	NextGuess(ctx context.Context, req GuessRequest) (string, error)
	Narrate(ctx context.Context, req NarrationRequest) (string, error)
}

// Opponent drives one computer-controlled side of a session: a persona
// for flavor, a tier-selected strategy for guesses, and an optional
// remote generator it never depends on.
type Opponent struct {
	Persona  Persona
	Tier     Tier
	strategy Strategy
	gen      TextGenerator
	rng      *rand.Rand
	log      zerolog.Logger

	cannedIdx int
}

// New builds an opponent for a human with the given skill rating.
// gen may be nil; the opponent then runs entirely on its strategy.
func New(persona Persona, rating int, gen TextGenerator, seed int64, log zerolog.Logger) *Opponent {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	tier := TierForRating(rating)
	return &Opponent{
		Persona:  persona,
		Tier:     tier,
		strategy: StrategyForTier(tier),
		gen:      gen,
		rng:      rand.New(rand.NewSource(seed)),
		log:      log,
	}
}

// Resume rebuilds an opponent from persisted tags after a restart.
func Resume(persona Persona, strategyName string, gen TextGenerator, seed int64, log zerolog.Logger) *Opponent {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	st := StrategyByName(strategyName)
	var tier Tier
	switch st.Name() {
	case "aggressive":
		tier = TierHigh
	case "logical":
		tier = TierMid
	default:
		tier = TierLow
	}
	return &Opponent{
		Persona:  persona,
		Tier:     tier,
		strategy: st,
		gen:      gen,
		rng:      rand.New(rand.NewSource(seed)),
		log:      log,
	}
}

// StrategyName reports the tag persisted on the AI participant.
func (o *Opponent) StrategyName() string { return o.strategy.Name() }

// NextGuess produces the opponent's guess for the current turn. The
// remote suggestion is validated against the same contract as a human
// guess; anything malformed, repeated or errored is silently replaced
// by the strategy fallback. This method never fails and never returns
// an invalid code.
func (o *Opponent) NextGuess(ctx context.Context, history []pulse.GuessRecord) pulse.Code {
	if o.gen != nil {
		raw, err := o.gen.NextGuess(ctx, GuessRequest{Strategy: o.strategy.Name(), History: history})
		if err == nil {
			if code, perr := pulse.Parse(raw); perr == nil && !alreadyTried(history, code) {
				return code
			}
			o.log.Debug().Str("raw", raw).Msg("generator guess failed validation, using fallback")
		} else {
			o.log.Debug().Err(err).Msg("generator guess failed, using fallback")
		}
	}
	return o.strategy.Fallback(history, o.rng)
}

// Narrate produces persona banter for a scored guess. Failures rotate
// through the persona's canned lines; narration never affects play.
func (o *Opponent) Narrate(ctx context.Context, req NarrationRequest) string {
	req.Persona = o.Persona
	if o.gen != nil {
		line, err := o.gen.Narrate(ctx, req)
		if err == nil && line != "" {
			return line
		}
		if err != nil {
			o.log.Debug().Err(err).Msg("narration failed, using canned line")
		}
	}
	return o.cannedLine()
}

func (o *Opponent) cannedLine() string {
	lines := o.Persona.CannedLines
	if len(lines) == 0 {
		return o.Persona.Name + " says nothing."
	}
	line := lines[o.cannedIdx%len(lines)]
	o.cannedIdx++
	return line
}

func alreadyTried(history []pulse.GuessRecord, code pulse.Code) bool {
	for _, h := range history {
		if h.Guess == code {
			return true
		}
	}
	return false
}
