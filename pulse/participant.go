package pulse

// PenaltyKind classifies the stress penalties a participant can incur.
type PenaltyKind string

const (
	PenaltyNone PenaltyKind = ""
	// Advisory penalties: flavor only, guessing continues.
	PenaltySignalJam   PenaltyKind = "signal_jam"
	PenaltyStaticSurge PenaltyKind = "static_surge"
	PenaltyFeedback    PenaltyKind = "feedback_loop"
	// Lockout is terminal: the participant may not guess again.
	PenaltyLockout PenaltyKind = "lockout"
)

const (
	maxStress       = 100
	advisoryStress  = 70
	stressPerStatic = 10
)

var advisoryPenalties = []PenaltyKind{PenaltySignalJam, PenaltyStaticSurge, PenaltyFeedback}

// GuessRecord is one scored guess in a participant's history.
type GuessRecord struct {
	Guess  Code   `json:"guess"`
	Result Result `json:"result"`
}

// PenaltyRecord logs a penalty at the moment it was incurred.
type PenaltyRecord struct {
	Kind   PenaltyKind `json:"kind"`
	Stress int         `json:"stress"`
}

// Participant is one guessing entity inside a session: a human player
// or the computer opponent.
type Participant struct {
	ID   string
	Name string
	AI   bool

	// AI-only tags, empty for humans.
	PersonaID  string
	Difficulty string

	code    Code
	codeSet bool

	stress    int
	guesses   []GuessRecord
	penalties []PenaltyRecord
}

func NewParticipant(id, name string) *Participant {
	return &Participant{ID: id, Name: name}
}

func NewAIParticipant(id, name, personaID, difficulty string) *Participant {
	return &Participant{ID: id, Name: name, AI: true, PersonaID: personaID, Difficulty: difficulty}
}

func (p *Participant) Code() Code    { return p.code }
func (p *Participant) HasCode() bool { return p.codeSet }
func (p *Participant) Stress() int   { return p.stress }

func (p *Participant) Guesses() []GuessRecord     { return p.guesses }
func (p *Participant) GuessCount() int            { return len(p.guesses) }
func (p *Participant) Penalties() []PenaltyRecord { return p.penalties }

// SetCode assigns the participant's secret code. The first assignment
// wins; later ones report ErrCodeAlreadySet.
func (p *Participant) SetCode(c Code) error {
	if p.codeSet {
		return ErrCodeAlreadySet
	}
	p.code = c
	p.codeSet = true
	return nil
}

// RegisterGuess appends a scored guess to the participant's history.
func (p *Participant) RegisterGuess(guess Code, result Result) {
	p.guesses = append(p.guesses, GuessRecord{Guess: guess, Result: result})
}

// ApplyStress raises stress by 10 per static digit, clamped to 100,
// and logs any penalty the new level triggers. Returns the penalty in
// effect after the update. Only the participant's own guesses ever
// reach this method.
func (p *Participant) ApplyStress(static int) PenaltyKind {
	before := p.CurrentPenalty()
	p.stress += static * stressPerStatic
	if p.stress > maxStress {
		p.stress = maxStress
	}
	after := p.CurrentPenalty()
	if after != PenaltyNone && after != before {
		p.penalties = append(p.penalties, PenaltyRecord{Kind: after, Stress: p.stress})
	}
	return after
}

// CurrentPenalty derives the penalty from current stress. It is a pure
// read: nothing is stored beyond the log written by ApplyStress.
func (p *Participant) CurrentPenalty() PenaltyKind {
	switch {
	case p.stress >= maxStress:
		return PenaltyLockout
	case p.stress >= advisoryStress:
		// Rotate through the advisory set so repeat offenders see variety.
		return advisoryPenalties[len(p.guesses)%len(advisoryPenalties)]
	default:
		return PenaltyNone
	}
}

// LockedOut reports whether the participant may still submit guesses.
func (p *Participant) LockedOut() bool { return p.stress >= maxStress }
