package manager

import (
	"context"

	"github.com/Abel5173/pulsecode/pulse"
	"github.com/Abel5173/pulsecode/pulse/opponent"
)

func narrationFor(o *opponent.Opponent, out pulse.GuessOutcome) opponent.NarrationRequest {
	return opponent.NarrationRequest{
		Persona: o.Persona,
		Actor:   out.Actor,
		Guess:   out.Guess,
		Result:  out.Result,
		Stress:  out.Stress,
	}
}

// CreateArchitect opens a human-vs-AI session in the given chat. The
// opponent's difficulty comes from the human's persisted skill rating.
func (r *Registry) CreateArchitect(ctx context.Context, key, playerID, playerName string) (pulse.Snapshot, error) {
	o, ai := r.newOpponent(ctx, playerID)
	s, err := pulse.NewArchitect(key, r.cfg, playerID, playerName, ai)
	if err != nil {
		return pulse.Snapshot{}, err
	}
	if err := r.architect.place(s); err != nil {
		return pulse.Snapshot{}, err
	}
	r.putOpponent(pulse.ModeArchitect, key, o)
	r.architect.persist(ctx, s)
	r.log.Info().Str("key", key).Str("persona", o.Persona.ID).Str("tier", string(o.Tier)).
		Msg("architect session created")
	return s.Snapshot(), nil
}

// CreatePVP opens a two-player session; both players must set codes
// before guessing starts.
func (r *Registry) CreatePVP(ctx context.Context, key, aID, aName, bID, bName string) (pulse.Snapshot, error) {
	s, err := pulse.NewPVP(key, r.cfg, aID, aName, bID, bName)
	if err != nil {
		return pulse.Snapshot{}, err
	}
	if err := r.pvp.place(s); err != nil {
		return pulse.Snapshot{}, err
	}
	r.pvp.persist(ctx, s)
	r.log.Info().Str("key", key).Msg("pvp session created")
	return s.Snapshot(), nil
}

// CreateGroupAI opens a group hunt against one AI-held code.
func (r *Registry) CreateGroupAI(ctx context.Context, key, creatorID, creatorName string) (pulse.Snapshot, error) {
	o, ai := r.newOpponent(ctx, creatorID)
	s, err := pulse.NewGroupAI(key, r.cfg, creatorID, creatorName, ai)
	if err != nil {
		return pulse.Snapshot{}, err
	}
	if err := r.groupAI.place(s); err != nil {
		return pulse.Snapshot{}, err
	}
	r.putOpponent(pulse.ModeGroupAI, key, o)
	r.groupAI.persist(ctx, s)
	r.log.Info().Str("key", key).Str("persona", o.Persona.ID).Msg("group-ai session created")
	return s.Snapshot(), nil
}

// CreateGroupPVP opens a team-vs-team session with two named teams.
func (r *Registry) CreateGroupPVP(ctx context.Context, key, teamA, teamB string) (pulse.Snapshot, error) {
	s, err := pulse.NewGroupPVP(key, r.cfg, teamA, teamB)
	if err != nil {
		return pulse.Snapshot{}, err
	}
	if err := r.groupPVP.place(s); err != nil {
		return pulse.Snapshot{}, err
	}
	r.groupPVP.persist(ctx, s)
	r.log.Info().Str("key", key).Str("teamA", teamA).Str("teamB", teamB).
		Msg("group-pvp session created")
	return s.Snapshot(), nil
}

// Join adds a player to a forming group session. For group_pvp, team
// names which team.
func (r *Registry) Join(ctx context.Context, mode pulse.Mode, key, playerID, playerName, team string) error {
	m := r.manager(mode)
	if m == nil {
		return ErrWrongMode
	}
	return m.withSession(ctx, key, func(s pulse.Session) (bool, error) {
		switch gs := s.(type) {
		case *pulse.GroupAISession:
			err := gs.Join(playerID, playerName)
			return err == nil, err
		case *pulse.GroupPVPSession:
			err := gs.Join(playerID, playerName, team)
			return err == nil, err
		default:
			return false, pulse.ErrWrongPhase
		}
	})
}

// Start activates a forming group session.
func (r *Registry) Start(ctx context.Context, mode pulse.Mode, key string) error {
	m := r.manager(mode)
	if m == nil {
		return ErrWrongMode
	}
	return m.withSession(ctx, key, func(s pulse.Session) (bool, error) {
		switch gs := s.(type) {
		case *pulse.GroupAISession:
			err := gs.Start()
			return err == nil, err
		case *pulse.GroupPVPSession:
			err := gs.Start()
			return err == nil, err
		default:
			return false, pulse.ErrWrongPhase
		}
	})
}

// SetCode records a secret code during code setup. In group_pvp the
// code lands on the actor's team; a teammate retry reports the code
// already set without error.
func (r *Registry) SetCode(ctx context.Context, mode pulse.Mode, key, playerID, code string) (pulse.Code, error) {
	m := r.manager(mode)
	if m == nil {
		return "", ErrWrongMode
	}
	var set pulse.Code
	err := m.withSession(ctx, key, func(s pulse.Session) (bool, error) {
		switch cs := s.(type) {
		case *pulse.ArchitectSession:
			if err := cs.SetCode(playerID, code); err != nil {
				return false, err
			}
			set = cs.Participant(playerID).Code()
			return true, nil
		case *pulse.PVPSession:
			if err := cs.SetCode(playerID, code); err != nil {
				return false, err
			}
			set = cs.Participant(playerID).Code()
			return true, nil
		case *pulse.GroupPVPSession:
			c, err := cs.SetTeamCode(playerID, code)
			if err != nil {
				return false, err
			}
			set = c
			return true, nil
		default:
			return false, pulse.ErrWrongPhase
		}
	})
	return set, err
}

// Guess submits a guess to the session under key and drives whatever
// follows it: persona narration, and in architect mode the opponent's
// own turn. Rating updates fire when the session resolves.
func (r *Registry) Guess(ctx context.Context, mode pulse.Mode, key, playerID, guess string) (Report, error) {
	m := r.manager(mode)
	if m == nil {
		return Report{}, ErrWrongMode
	}
	var report Report
	err := m.withSession(ctx, key, func(s pulse.Session) (bool, error) {
		out, err := s.SubmitGuess(playerID, guess)
		if err != nil {
			return false, err
		}
		report.Outcome = out
		opp := r.opponentFor(mode, key)

		// Architect: after a non-winning human guess it is the AI's
		// turn; the opponent guesses back through the same validated
		// path a human uses.
		if as, ok := s.(*pulse.ArchitectSession); ok && opp != nil &&
			s.Active() && s.CurrentTurn() == as.AIID() {
			aiGuess := opp.NextGuess(ctx, as.AI().Guesses())
			aiOut, aiErr := as.SubmitGuess(as.AIID(), string(aiGuess))
			if aiErr != nil {
				// The fallback contract makes this unreachable; the
				// session must never stall on the opponent.
				r.log.Error().Err(aiErr).Str("key", key).Msg("ai guess rejected")
			} else {
				report.AIMove = &aiOut
			}
		}

		if opp != nil {
			report.Narration = opp.Narrate(ctx, narrationFor(opp, out))
		}
		if !s.Active() {
			r.resolveRatings(ctx, s)
		}
		return true, nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}
