package pulse

// GroupAISession is a pack of humans hunting one AI-held code. The AI
// never takes a turn of its own here: it is purely the guess target.
// Humans rotate round-robin in join order; each accrues stress from
// their own guesses only. Locked-out members are skipped when the turn
// rotates; if everyone locks out the session drains to a draw.
type GroupAISession struct {
	session

	aiID string
}

// NewGroupAI opens a group session in the joining phase. The creator
// joins immediately; the AI code is rolled when Start is called.
func NewGroupAI(key string, cfg Config, creatorID, creatorName string, ai *Participant) (*GroupAISession, error) {
	base, err := newSession(ModeGroupAI, key, cfg)
	if err != nil {
		return nil, err
	}
	s := &GroupAISession{session: base, aiID: ai.ID}
	s.participants[ai.ID] = ai
	s.addParticipant(NewParticipant(creatorID, creatorName))
	return s, nil
}

func (s *GroupAISession) AIID() string     { return s.aiID }
func (s *GroupAISession) AI() *Participant { return s.participants[s.aiID] }

// Join adds a human to the hunt while the session is still forming.
func (s *GroupAISession) Join(id, name string) error {
	if s.phase != PhaseCreated {
		return ErrWrongPhase
	}
	if s.participants[id] != nil {
		return ErrAlreadyJoined
	}
	if s.humanCount() >= s.cfg.MaxGroupSize {
		return ErrSessionFull
	}
	s.addParticipant(NewParticipant(id, name))
	return nil
}

func (s *GroupAISession) humanCount() int {
	return len(s.participants) - 1 // everything but the AI
}

// Start activates the session: the AI code is generated (code setup is
// auto-completed) and the first joiner is up.
func (s *GroupAISession) Start() error {
	if s.phase != PhaseCreated {
		return ErrWrongPhase
	}
	if s.humanCount() < 1 {
		return ErrNotEnoughPlayer
	}
	ai := s.participants[s.aiID]
	if !ai.HasCode() {
		_ = ai.SetCode(Generate(s.rng))
	}
	s.appendEvent(Event{Kind: EventCodeSet, Actor: s.aiID})
	for _, id := range s.participantOrder() {
		if id != s.aiID {
			s.order = append(s.order, id)
		}
	}
	s.phase = PhaseInProgress
	s.appendEvent(Event{Kind: EventStart})
	return nil
}

func (s *GroupAISession) SubmitGuess(actorID, raw string) (GuessOutcome, error) {
	p, err := s.checkGuesser(actorID)
	if err != nil {
		return GuessOutcome{}, err
	}
	if actorID == s.aiID {
		return GuessOutcome{}, ErrNotParticipant
	}
	if s.CurrentTurn() != actorID {
		return GuessOutcome{}, ErrNotYourTurn
	}
	guess, err := Parse(raw)
	if err != nil {
		return GuessOutcome{}, err
	}
	out, result := s.applyGuess(p, "", guess, s.participants[s.aiID].Code())
	if result.Winning() {
		s.finishWin(actorID)
		out.Won = true
		return out, nil
	}
	if !s.advancePastLockouts() {
		s.finishDraw()
		out.Draw = true
		return out, nil
	}
	out.NextTurn = s.CurrentTurn()
	return out, nil
}

// advancePastLockouts rotates to the next member still able to guess.
// Returns false when nobody is left.
func (s *GroupAISession) advancePastLockouts() bool {
	for i := 0; i < len(s.order); i++ {
		s.advanceTurn()
		if !s.participants[s.order[s.turnIdx]].LockedOut() {
			return true
		}
	}
	return false
}
