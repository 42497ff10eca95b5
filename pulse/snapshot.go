package pulse

import (
	"fmt"
	"time"
)

// Snapshot is the full serializable form of a session: nested primitive
// values only, so it survives a JSON round-trip losslessly and a process
// restart can rebuild the live session from it.
type Snapshot struct {
	Mode    Mode   `json:"mode"`
	Key     string `json:"key"`
	Phase   Phase  `json:"phase"`
	Winner  string `json:"winner,omitempty"`
	TurnIdx int    `json:"turn_idx"`
	Turns   int    `json:"turns"`

	Config    Config    `json:"config"`
	Order     []string  `json:"order,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Participants []ParticipantSnapshot `json:"participants"`
	Teams        []TeamSnapshot        `json:"teams,omitempty"`
	Events       []Event               `json:"events,omitempty"`
}

type ParticipantSnapshot struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	AI         bool            `json:"ai,omitempty"`
	PersonaID  string          `json:"persona_id,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
	Code       Code            `json:"code,omitempty"`
	CodeSet    bool            `json:"code_set"`
	Stress     int             `json:"stress"`
	Guesses    []GuessRecord   `json:"guesses,omitempty"`
	Penalties  []PenaltyRecord `json:"penalties,omitempty"`
}

type TeamSnapshot struct {
	Name    string   `json:"name"`
	Code    Code     `json:"code,omitempty"`
	CodeSet bool     `json:"code_set"`
	Members []string `json:"members,omitempty"`
}

func (s *session) baseSnapshot() Snapshot {
	snap := Snapshot{
		Mode:      s.mode,
		Key:       s.key,
		Phase:     s.phase,
		Winner:    s.winner,
		TurnIdx:   s.turnIdx,
		Turns:     s.totalTurns,
		Config:    s.cfg,
		Order:     append([]string{}, s.order...),
		CreatedAt: s.createdAt,
		Events:    append([]Event{}, s.events...),
	}
	for _, id := range s.participantOrder() {
		p := s.participants[id]
		snap.Participants = append(snap.Participants, ParticipantSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			AI:         p.AI,
			PersonaID:  p.PersonaID,
			Difficulty: p.Difficulty,
			Code:       p.code,
			CodeSet:    p.codeSet,
			Stress:     p.stress,
			Guesses:    append([]GuessRecord{}, p.guesses...),
			Penalties:  append([]PenaltyRecord{}, p.penalties...),
		})
	}
	return snap
}

func (s *ArchitectSession) Snapshot() Snapshot { return s.baseSnapshot() }
func (s *PVPSession) Snapshot() Snapshot       { return s.baseSnapshot() }
func (s *GroupAISession) Snapshot() Snapshot   { return s.baseSnapshot() }

func (s *GroupPVPSession) Snapshot() Snapshot {
	snap := s.baseSnapshot()
	for _, t := range s.teams {
		snap.Teams = append(snap.Teams, TeamSnapshot{
			Name:    t.Name,
			Code:    t.code,
			CodeSet: t.codeSet,
			Members: append([]string{}, t.members...),
		})
	}
	return snap
}

// Restore rebuilds a live session from its snapshot. The inverse of
// Snapshot: every field in the data model round-trips.
func Restore(snap Snapshot) (Session, error) {
	base, err := newSession(snap.Mode, snap.Key, snap.Config)
	if err != nil {
		return nil, err
	}
	base.phase = snap.Phase
	base.winner = snap.Winner
	base.turnIdx = snap.TurnIdx
	base.totalTurns = snap.Turns
	base.order = append([]string{}, snap.Order...)
	base.events = append([]Event{}, snap.Events...)
	if !snap.CreatedAt.IsZero() {
		base.createdAt = snap.CreatedAt
	}
	for _, ps := range snap.Participants {
		base.participants[ps.ID] = restoreParticipant(ps)
	}

	switch snap.Mode {
	case ModeArchitect:
		s := &ArchitectSession{session: base}
		for _, ps := range snap.Participants {
			if ps.AI {
				s.aiID = ps.ID
			} else {
				s.humanID = ps.ID
			}
		}
		if s.humanID == "" || s.aiID == "" {
			return nil, fmt.Errorf("architect snapshot %s: missing participant", snap.Key)
		}
		return s, nil
	case ModePVP:
		if len(snap.Order) != 2 {
			return nil, fmt.Errorf("pvp snapshot %s: want 2 players, got %d", snap.Key, len(snap.Order))
		}
		return &PVPSession{session: base, playerA: snap.Order[0], playerB: snap.Order[1]}, nil
	case ModeGroupAI:
		s := &GroupAISession{session: base}
		for _, ps := range snap.Participants {
			if ps.AI {
				s.aiID = ps.ID
			}
		}
		if s.aiID == "" {
			return nil, fmt.Errorf("group_ai snapshot %s: missing AI participant", snap.Key)
		}
		return s, nil
	case ModeGroupPVP:
		if len(snap.Teams) != 2 {
			return nil, fmt.Errorf("group_pvp snapshot %s: want 2 teams, got %d", snap.Key, len(snap.Teams))
		}
		s := &GroupPVPSession{session: base}
		for i, ts := range snap.Teams {
			s.teams[i] = &Team{
				Name:    ts.Name,
				code:    ts.Code,
				codeSet: ts.CodeSet,
				members: append([]string{}, ts.Members...),
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session mode %q", snap.Mode)
	}
}

func restoreParticipant(ps ParticipantSnapshot) *Participant {
	return &Participant{
		ID:         ps.ID,
		Name:       ps.Name,
		AI:         ps.AI,
		PersonaID:  ps.PersonaID,
		Difficulty: ps.Difficulty,
		code:       ps.Code,
		codeSet:    ps.CodeSet,
		stress:     ps.Stress,
		guesses:    append([]GuessRecord{}, ps.Guesses...),
		penalties:  append([]PenaltyRecord{}, ps.Penalties...),
	}
}
