package pulse

// PVPSession is two humans head-to-head. Both must set a code before
// play begins; turns alternate strictly. With Config.TurnLimit > 0 the
// session ends in a draw once that many total guesses have been scored
// without a crack.
type PVPSession struct {
	session

	playerA string
	playerB string
}

func NewPVP(key string, cfg Config, aID, aName, bID, bName string) (*PVPSession, error) {
	base, err := newSession(ModePVP, key, cfg)
	if err != nil {
		return nil, err
	}
	s := &PVPSession{session: base, playerA: aID, playerB: bID}
	s.addParticipant(NewParticipant(aID, aName))
	s.addParticipant(NewParticipant(bID, bName))
	s.order = []string{aID, bID}
	s.phase = PhaseCodeSetup
	return s, nil
}

// SetCode stores a player's secret code. Once both are in, the session
// moves to in-progress with player A to guess first.
func (s *PVPSession) SetCode(actorID, raw string) error {
	if s.phase != PhaseCodeSetup {
		return ErrWrongPhase
	}
	p := s.participants[actorID]
	if p == nil {
		return ErrNotParticipant
	}
	code, err := Parse(raw)
	if err != nil {
		return err
	}
	if err := p.SetCode(code); err != nil {
		return err
	}
	s.appendEvent(Event{Kind: EventCodeSet, Actor: actorID})
	if s.participants[s.playerA].HasCode() && s.participants[s.playerB].HasCode() {
		s.phase = PhaseInProgress
		s.appendEvent(Event{Kind: EventStart})
	}
	return nil
}

func (s *PVPSession) opponentOf(id string) string {
	if id == s.playerA {
		return s.playerB
	}
	return s.playerA
}

func (s *PVPSession) SubmitGuess(actorID, raw string) (GuessOutcome, error) {
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
	secret := s.participants[s.opponentOf(actorID)].Code()
	out, result := s.applyGuess(p, "", guess, secret)
	if result.Winning() {
		s.finishWin(actorID)
		out.Won = true
		return out, nil
	}
	if s.cfg.TurnLimit > 0 && s.totalTurns >= s.cfg.TurnLimit {
		s.finishDraw()
		out.Draw = true
		return out, nil
	}
	s.advanceTurn()
	out.NextTurn = s.CurrentTurn()
	return out, nil
}
