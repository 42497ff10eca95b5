package pulse

// ArchitectSession pits one human against one computer opponent. Both
// sides hold a secret code and may guess against the other's; the turn
// order is fixed [human, AI]. The AI's code is generated automatically,
// so code setup only waits on the human.
type ArchitectSession struct {
	session

	humanID string
	aiID    string
}

// NewArchitect creates an architect session. The AI participant arrives
// fully tagged (persona, difficulty) by the caller; its code is rolled
// immediately, so the session starts in code setup waiting for the human.
func NewArchitect(key string, cfg Config, humanID, humanName string, ai *Participant) (*ArchitectSession, error) {
	base, err := newSession(ModeArchitect, key, cfg)
	if err != nil {
		return nil, err
	}
	s := &ArchitectSession{session: base, humanID: humanID, aiID: ai.ID}
	human := NewParticipant(humanID, humanName)
	s.addParticipant(human)
	s.addParticipant(ai)
	if !ai.HasCode() {
		_ = ai.SetCode(Generate(s.rng))
	}
	s.appendEvent(Event{Kind: EventCodeSet, Actor: ai.ID})
	s.order = []string{humanID, ai.ID}
	s.phase = PhaseCodeSetup
	return s, nil
}

func (s *ArchitectSession) HumanID() string { return s.humanID }
func (s *ArchitectSession) AIID() string    { return s.aiID }

// AI returns the computer-opponent participant.
func (s *ArchitectSession) AI() *Participant { return s.participants[s.aiID] }

// SetCode stores the human's secret code and starts play.
func (s *ArchitectSession) SetCode(actorID, raw string) error {
	if s.phase != PhaseCodeSetup {
		return ErrWrongPhase
	}
	if actorID != s.humanID {
		return ErrNotParticipant
	}
	code, err := Parse(raw)
	if err != nil {
		return err
	}
	if err := s.participants[actorID].SetCode(code); err != nil {
		return err
	}
	s.appendEvent(Event{Kind: EventCodeSet, Actor: actorID})
	s.phase = PhaseInProgress
	s.appendEvent(Event{Kind: EventStart})
	return nil
}

// SubmitGuess scores actorID's guess against the opposing code.
func (s *ArchitectSession) SubmitGuess(actorID, raw string) (GuessOutcome, error) {
	p, err := s.checkGuesser(actorID)
	if err != nil {
		return GuessOutcome{}, err
	}
	if s.CurrentTurn() != actorID {
		return GuessOutcome{}, ErrNotYourTurn
	}
	guess, err := Parse(raw)
	if err != nil {
		return GuessOutcome{}, err
	}
	target := s.aiID
	if actorID == s.aiID {
		target = s.humanID
	}
	out, result := s.applyGuess(p, "", guess, s.participants[target].Code())
	if result.Winning() {
		s.finishWin(actorID)
		out.Won = true
		return out, nil
	}
	s.advanceTurn()
	out.NextTurn = s.CurrentTurn()
	return out, nil
}
