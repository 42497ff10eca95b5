package manager

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Abel5173/pulsecode/internal/ratings"
	"github.com/Abel5173/pulsecode/internal/store"
	"github.com/Abel5173/pulsecode/pulse"
	"github.com/Abel5173/pulsecode/pulse/opponent"
)

// Report is what a guess hands back to the transport layer: the scored
// outcome, persona narration about it, and (architect mode) the AI's
// counter-move taken on its turn.
type Report struct {
	Outcome   pulse.GuessOutcome
	Narration string
	// AIMove is set when the computer opponent guessed back this turn.
	AIMove *pulse.GuessOutcome
}

// Registry is the process-wide front door: one Manager per mode plus
// the collaborators every mode shares.
type Registry struct {
	architect *Manager
	pvp       *Manager
	groupAI   *Manager
	groupPVP  *Manager

	cfg      pulse.Config
	store    store.Store
	ratings  ratings.Service
	gen      opponent.TextGenerator
	personas *opponent.Registry
	log      zerolog.Logger

	oppMu     sync.Mutex
	opponents map[string]*opponent.Opponent // mode/key -> live opponent
}

// New wires a registry. gen may be nil (opponents fall back to their
// strategies alone).
func New(cfg pulse.Config, st store.Store, rt ratings.Service, gen opponent.TextGenerator, log zerolog.Logger) *Registry {
	if cfg == (pulse.Config{}) {
		cfg = pulse.DefaultConfig()
	}
	return &Registry{
		architect: newManager(pulse.ModeArchitect, st, log),
		pvp:       newManager(pulse.ModePVP, st, log),
		groupAI:   newManager(pulse.ModeGroupAI, st, log),
		groupPVP:  newManager(pulse.ModeGroupPVP, st, log),
		cfg:       cfg,
		store:     st,
		ratings:   rt,
		gen:       gen,
		personas:  opponent.NewRegistry(),
		log:       log,
	}
}

func (r *Registry) manager(mode pulse.Mode) *Manager {
	switch mode {
	case pulse.ModeArchitect:
		return r.architect
	case pulse.ModePVP:
		return r.pvp
	case pulse.ModeGroupAI:
		return r.groupAI
	case pulse.ModeGroupPVP:
		return r.groupPVP
	default:
		return nil
	}
}

func oppKey(mode pulse.Mode, key string) string { return string(mode) + "/" + key }

func (r *Registry) putOpponent(mode pulse.Mode, key string, o *opponent.Opponent) {
	r.oppMu.Lock()
	defer r.oppMu.Unlock()
	if r.opponents == nil {
		r.opponents = make(map[string]*opponent.Opponent)
	}
	r.opponents[oppKey(mode, key)] = o
}

func (r *Registry) opponentFor(mode pulse.Mode, key string) *opponent.Opponent {
	r.oppMu.Lock()
	defer r.oppMu.Unlock()
	return r.opponents[oppKey(mode, key)]
}

func (r *Registry) dropOpponent(mode pulse.Mode, key string) {
	r.oppMu.Lock()
	defer r.oppMu.Unlock()
	delete(r.opponents, oppKey(mode, key))
}

// Recover rebuilds every session from durable storage. Call before
// accepting traffic.
func (r *Registry) Recover(ctx context.Context) error {
	snaps, err := r.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, snap := range snaps {
		s, err := pulse.Restore(snap)
		if err != nil {
			r.log.Error().Err(err).Str("key", snap.Key).Str("mode", string(snap.Mode)).
				Msg("skipping unrecoverable session record")
			continue
		}
		m := r.manager(s.Mode())
		if m == nil {
			continue
		}
		m.adopt(s)
		r.resumeOpponent(s)
	}
	r.log.Info().Int("sessions", len(snaps)).Msg("recovery complete")
	return nil
}

// resumeOpponent rebuilds the live opponent for recovered AI sessions
// from the tags persisted on the AI participant.
func (r *Registry) resumeOpponent(s pulse.Session) {
	for _, p := range s.Participants() {
		if !p.AI {
			continue
		}
		persona := r.personas.Lookup(p.PersonaID)
		o := opponent.Resume(persona, p.Difficulty, r.gen, 0, r.log)
		r.putOpponent(s.Mode(), s.Key(), o)
		return
	}
}

// newOpponent rolls a persona and difficulty for the named human.
func (r *Registry) newOpponent(ctx context.Context, humanID string) (*opponent.Opponent, *pulse.Participant) {
	rating, err := r.ratings.Get(ctx, humanID)
	if err != nil {
		r.log.Warn().Err(err).Str("player", humanID).Msg("rating read failed, using default")
		rating = ratings.DefaultRating
	}
	persona := r.personas.Lookup(pickPersona(humanID))
	o := opponent.New(persona, rating, r.gen, 0, r.log)
	ai := pulse.NewAIParticipant("ai:"+persona.ID, persona.Name, persona.ID, o.StrategyName())
	return o, ai
}

// pickPersona spreads personas across players without extra state.
func pickPersona(humanID string) string {
	ids := opponent.NewRegistry().IDs()
	sum := 0
	for _, c := range humanID {
		sum += int(c)
	}
	return ids[sum%len(ids)]
}

// Status returns the session snapshot for display.
func (r *Registry) Status(mode pulse.Mode, key string) (pulse.Snapshot, error) {
	m := r.manager(mode)
	if m == nil {
		return pulse.Snapshot{}, ErrWrongMode
	}
	e := m.lookup(key)
	if e == nil {
		return pulse.Snapshot{}, ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.Snapshot(), nil
}

// End cancels and removes a session from memory and durable storage.
func (r *Registry) End(ctx context.Context, mode pulse.Mode, key string) error {
	m := r.manager(mode)
	if m == nil {
		return ErrWrongMode
	}
	if err := m.end(ctx, key); err != nil {
		return err
	}
	r.dropOpponent(mode, key)
	return nil
}

// resolveRatings writes win/loss rating updates for every human once a
// session has a winner. Draws and cancellations move nothing.
func (r *Registry) resolveRatings(ctx context.Context, s pulse.Session) {
	winner := s.Winner()
	if winner == "" {
		return
	}
	var winningTeam *pulse.Team
	if gs, ok := s.(*pulse.GroupPVPSession); ok {
		winningTeam = gs.Team(winner)
	}
	for _, p := range s.Participants() {
		if p.AI {
			continue
		}
		won := p.ID == winner
		if winningTeam != nil {
			won = winningTeam.Members() != nil && containsID(winningTeam.Members(), p.ID)
		}
		if newRating, err := r.ratings.ApplyResult(ctx, p.ID, won); err != nil {
			r.log.Warn().Err(err).Str("player", p.ID).Msg("rating update failed")
		} else {
			r.log.Info().Str("player", p.ID).Bool("won", won).Int("rating", newRating).
				Msg("rating updated")
		}
	}
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
