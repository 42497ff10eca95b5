package pulse

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Mode tags the four session topologies.
type Mode string

const (
	ModeArchitect Mode = "architect" // 1 human vs 1 AI
	ModePVP       Mode = "pvp"       // 2 humans head-to-head
	ModeGroupAI   Mode = "group_ai"  // N humans vs 1 AI target
	ModeGroupPVP  Mode = "group_pvp" // 2 teams of humans
)

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseCreated    Phase = "created"
	PhaseCodeSetup  Phase = "code_setup"
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
	PhaseCancelled  Phase = "cancelled"
)

// EventKind classifies entries in the session history.
type EventKind string

const (
	EventJoin    EventKind = "join"
	EventCodeSet EventKind = "code_set"
	EventStart   EventKind = "start"
	EventGuess   EventKind = "guess"
	EventWin     EventKind = "win"
	EventDraw    EventKind = "draw"
	EventCancel  EventKind = "cancel"
)

// Event is one append-only history entry. Seq gives the total order.
type Event struct {
	Seq    int       `json:"seq"`
	ID     string    `json:"id"`
	Kind   EventKind `json:"kind"`
	Actor  string    `json:"actor,omitempty"`
	Team   string    `json:"team,omitempty"`
	Guess  Code      `json:"guess,omitempty"`
	Result *Result   `json:"result,omitempty"`
	At     time.Time `json:"at"`
}

// GuessOutcome is what a successful SubmitGuess reports back.
type GuessOutcome struct {
	Actor   string
	Team    string
	Guess   Code
	Result  Result
	Stress  int
	Penalty PenaltyKind
	Won     bool
	Draw    bool
	// NextTurn is the participant or team id due next, empty once the
	// session is terminal.
	NextTurn string
}

// Session is the behavior shared by all four mode state machines.
type Session interface {
	Mode() Mode
	Key() string
	Phase() Phase
	Active() bool
	// Winner returns the winning participant or team id, empty for
	// none (still running, draw, or cancelled).
	Winner() string
	CurrentTurn() string
	Participant(id string) *Participant
	Participants() []*Participant
	Events() []Event
	// SubmitGuess validates, scores and applies one guess by actorID.
	// Rejections (invalid guess, wrong turn, lockout, wrong phase)
	// leave the session untouched.
	SubmitGuess(actorID, guess string) (GuessOutcome, error)
	// Cancel moves any non-terminal session to PhaseCancelled.
	Cancel()
	Snapshot() Snapshot
}

// session carries the state common to every mode.
type session struct {
	mode  Mode
	key   string
	cfg   Config
	rng   *rand.Rand
	phase Phase

	participants map[string]*Participant
	order        []string // participant or team ids, turn sequence
	turnIdx      int
	winner       string

	totalTurns int
	events     []Event
	createdAt  time.Time
}

func newSession(mode Mode, key string, cfg Config) (session, error) {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return session{}, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return session{
		mode:         mode,
		key:          key,
		cfg:          cfg,
		rng:          rand.New(rand.NewSource(seed)),
		phase:        PhaseCreated,
		participants: make(map[string]*Participant),
		createdAt:    time.Now(),
	}, nil
}

func (s *session) Mode() Mode     { return s.mode }
func (s *session) Key() string    { return s.key }
func (s *session) Phase() Phase   { return s.phase }
func (s *session) Winner() string { return s.winner }

func (s *session) Active() bool {
	return s.phase != PhaseFinished && s.phase != PhaseCancelled
}

func (s *session) CurrentTurn() string {
	if s.phase != PhaseInProgress || len(s.order) == 0 {
		return ""
	}
	return s.order[s.turnIdx]
}

func (s *session) Participant(id string) *Participant { return s.participants[id] }

func (s *session) Participants() []*Participant {
	out := make([]*Participant, 0, len(s.participants))
	for _, id := range s.participantOrder() {
		out = append(out, s.participants[id])
	}
	return out
}

// participantOrder lists participant ids in a stable order: join order
// for humans, recorded via the joins slice kept inside events.
func (s *session) participantOrder() []string {
	ids := make([]string, 0, len(s.participants))
	seen := make(map[string]bool, len(s.participants))
	for _, ev := range s.events {
		if ev.Kind == EventJoin && s.participants[ev.Actor] != nil && !seen[ev.Actor] {
			ids = append(ids, ev.Actor)
			seen[ev.Actor] = true
		}
	}
	for id := range s.participants {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *session) Events() []Event { return s.events }

func (s *session) Cancel() {
	if !s.Active() {
		return
	}
	s.phase = PhaseCancelled
	s.appendEvent(Event{Kind: EventCancel})
}

func (s *session) appendEvent(ev Event) {
	ev.Seq = len(s.events) + 1
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	s.events = append(s.events, ev)
}

func (s *session) finishWin(winner string) {
	s.phase = PhaseFinished
	s.winner = winner
	s.appendEvent(Event{Kind: EventWin, Actor: winner})
}

func (s *session) finishDraw() {
	s.phase = PhaseFinished
	s.winner = ""
	s.appendEvent(Event{Kind: EventDraw})
}

// addParticipant registers p and logs the join.
func (s *session) addParticipant(p *Participant) {
	s.participants[p.ID] = p
	s.appendEvent(Event{Kind: EventJoin, Actor: p.ID})
}

// checkGuesser runs the rejections shared by every mode: session must
// be in progress, actor must exist and not be locked out.
func (s *session) checkGuesser(actorID string) (*Participant, error) {
	switch s.phase {
	case PhaseInProgress:
	case PhaseFinished, PhaseCancelled:
		return nil, ErrSessionOver
	default:
		return nil, ErrWrongPhase
	}
	p := s.participants[actorID]
	if p == nil {
		return nil, ErrNotParticipant
	}
	if p.LockedOut() {
		return nil, ErrLockedOut
	}
	return p, nil
}

// applyGuess scores a validated guess for p against secret and mutates
// the shared state: history, stress, event log, turn counter.
func (s *session) applyGuess(p *Participant, team string, guess, secret Code) (GuessOutcome, Result) {
	result := Score(guess, secret)
	p.RegisterGuess(guess, result)
	penalty := p.ApplyStress(result.Static)
	s.totalTurns++
	r := result
	s.appendEvent(Event{Kind: EventGuess, Actor: p.ID, Team: team, Guess: guess, Result: &r})
	return GuessOutcome{
		Actor:   p.ID,
		Team:    team,
		Guess:   guess,
		Result:  result,
		Stress:  p.Stress(),
		Penalty: penalty,
	}, result
}

// advanceTurn moves to the next slot in the order.
func (s *session) advanceTurn() {
	if len(s.order) == 0 {
		return
	}
	s.turnIdx = (s.turnIdx + 1) % len(s.order)
}
