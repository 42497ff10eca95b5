package pulse

// Team is one side of a group-vs-group session: a shared secret code
// and a roster of member participants. The code is settable once, by
// any member; stress and history always land on individual members.
type Team struct {
	Name    string
	code    Code
	codeSet bool
	members []string
}

func (t *Team) Code() Code        { return t.code }
func (t *Team) HasCode() bool     { return t.codeSet }
func (t *Team) Members() []string { return t.members }

func (t *Team) hasMember(id string) bool {
	for _, m := range t.members {
		if m == id {
			return true
		}
	}
	return false
}

// GroupPVPSession is two named teams, each guarding one shared code.
// Turns alternate at team granularity; within the team at turn, any
// member may fire the guess.
type GroupPVPSession struct {
	session

	teams [2]*Team
}

func NewGroupPVP(key string, cfg Config, teamA, teamB string) (*GroupPVPSession, error) {
	base, err := newSession(ModeGroupPVP, key, cfg)
	if err != nil {
		return nil, err
	}
	s := &GroupPVPSession{session: base}
	s.teams[0] = &Team{Name: teamA}
	s.teams[1] = &Team{Name: teamB}
	s.order = []string{teamA, teamB}
	return s, nil
}

// Team returns the named team, or nil.
func (s *GroupPVPSession) Team(name string) *Team {
	for _, t := range s.teams {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (s *GroupPVPSession) Teams() [2]*Team { return s.teams }

// TeamOf returns the team a participant belongs to, or nil.
func (s *GroupPVPSession) TeamOf(id string) *Team {
	for _, t := range s.teams {
		if t.hasMember(id) {
			return t
		}
	}
	return nil
}

func (s *GroupPVPSession) opposing(t *Team) *Team {
	if s.teams[0] == t {
		return s.teams[1]
	}
	return s.teams[0]
}

// Join adds a human to the named team while the session is forming.
func (s *GroupPVPSession) Join(id, name, teamName string) error {
	if s.phase != PhaseCreated {
		return ErrWrongPhase
	}
	team := s.Team(teamName)
	if team == nil {
		return ErrInvalidState("unknown team " + teamName)
	}
	if s.TeamOf(id) != nil {
		return ErrAlreadyJoined
	}
	if len(team.members) >= s.cfg.MaxGroupSize {
		return ErrSessionFull
	}
	s.addParticipant(NewParticipant(id, name))
	team.members = append(team.members, id)
	return nil
}

// Start moves to code setup once both rosters have at least one member.
func (s *GroupPVPSession) Start() error {
	if s.phase != PhaseCreated {
		return ErrWrongPhase
	}
	if len(s.teams[0].members) < 1 || len(s.teams[1].members) < 1 {
		return ErrNotEnoughPlayer
	}
	s.phase = PhaseCodeSetup
	return nil
}

// SetTeamCode stores a team's shared code on behalf of actorID. The
// first set wins; later attempts by teammates are no-ops that report
// the code already in place.
func (s *GroupPVPSession) SetTeamCode(actorID, raw string) (Code, error) {
	if s.phase != PhaseCodeSetup {
		return "", ErrWrongPhase
	}
	team := s.TeamOf(actorID)
	if team == nil {
		return "", ErrNotParticipant
	}
	if team.codeSet {
		return team.code, nil
	}
	code, err := Parse(raw)
	if err != nil {
		return "", err
	}
	team.code = code
	team.codeSet = true
	s.appendEvent(Event{Kind: EventCodeSet, Actor: actorID, Team: team.Name})
	if s.teams[0].codeSet && s.teams[1].codeSet {
		s.phase = PhaseInProgress
		s.appendEvent(Event{Kind: EventStart})
	}
	return code, nil
}

// SubmitGuess fires actorID's guess at the opposing team's code. Only
// members of the team whose turn it is may guess; stress and history
// accrue to the guessing member, not the team.
func (s *GroupPVPSession) SubmitGuess(actorID, raw string) (GuessOutcome, error) {
	p, err := s.checkGuesser(actorID)
	if err != nil {
		return GuessOutcome{}, err
	}
	team := s.TeamOf(actorID)
	if team == nil {
		return GuessOutcome{}, ErrNotParticipant
	}
	if s.CurrentTurn() != team.Name {
		return GuessOutcome{}, ErrNotYourTurn
	}
	guess, err := Parse(raw)
	if err != nil {
		return GuessOutcome{}, err
	}
	out, result := s.applyGuess(p, team.Name, guess, s.opposing(team).Code())
	if result.Winning() {
		s.finishWin(team.Name)
		out.Won = true
		return out, nil
	}
	s.advanceTurn()
	out.NextTurn = s.CurrentTurn()
	return out, nil
}
