package pulse

import "testing"

func newTestArchitect(t *testing.T) *ArchitectSession {
	t.Helper()
	ai := NewAIParticipant("ai-1", "VEX", "vex", "logical")
	s, err := NewArchitect("chat-1", Config{MaxGroupSize: 10, Seed: 11}, "u1", "Ada", ai)
	if err != nil {
		t.Fatalf("NewArchitect: %v", err)
	}
	return s
}

func TestArchitectLifecycle(t *testing.T) {
	s := newTestArchitect(t)
	if s.Phase() != PhaseCodeSetup {
		t.Fatalf("phase after create = %s, want code_setup", s.Phase())
	}
	if !s.AI().HasCode() {
		t.Fatal("AI code should be generated on create")
	}
	if _, err := s.SubmitGuess("u1", "1234"); err != ErrWrongPhase {
		t.Fatalf("guess before setup complete err = %v, want ErrWrongPhase", err)
	}
	if err := s.SetCode("u1", "5678"); err != nil {
		t.Fatalf("SetCode: %v", err)
	}
	if s.Phase() != PhaseInProgress {
		t.Fatalf("phase after human code = %s, want in_progress", s.Phase())
	}
	if s.CurrentTurn() != "u1" {
		t.Fatalf("first turn = %s, want human", s.CurrentTurn())
	}
}

func TestArchitectWinOnFourHits(t *testing.T) {
	s := newTestArchitect(t)
	if err := s.SetCode("u1", "5678"); err != nil {
		t.Fatal(err)
	}
	secret := string(s.AI().Code())
	out, err := s.SubmitGuess("u1", secret)
	if err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if !out.Won || !out.Result.Winning() {
		t.Fatalf("outcome = %+v, want win", out)
	}
	if s.Phase() != PhaseFinished || s.Winner() != "u1" {
		t.Fatalf("phase=%s winner=%s after winning guess", s.Phase(), s.Winner())
	}
	if _, err := s.SubmitGuess("u1", secret); err != ErrSessionOver {
		t.Fatalf("guess after finish err = %v, want ErrSessionOver", err)
	}
}

func TestArchitectTurnAlternation(t *testing.T) {
	s := newTestArchitect(t)
	if err := s.SetCode("u1", "5678"); err != nil {
		t.Fatal(err)
	}
	out, err := s.SubmitGuess("u1", "8765")
	if err != nil {
		t.Fatal(err)
	}
	if out.Won {
		t.Skip("probe happened to match the rolled AI code")
	}
	if out.NextTurn != "ai-1" {
		t.Fatalf("next turn = %s, want ai-1", out.NextTurn)
	}
	if _, err := s.SubmitGuess("u1", "8765"); err != ErrNotYourTurn {
		t.Fatalf("second human guess err = %v, want ErrNotYourTurn", err)
	}
	// AI guesses back against the human code.
	aiOut, err := s.SubmitGuess("ai-1", "5678")
	if err != nil {
		t.Fatalf("AI guess: %v", err)
	}
	if !aiOut.Won {
		t.Fatal("AI guessing the exact human code should win")
	}
	if s.Winner() != "ai-1" {
		t.Fatalf("winner = %s, want ai-1", s.Winner())
	}
}

func TestArchitectInvalidGuessMutatesNothing(t *testing.T) {
	s := newTestArchitect(t)
	if err := s.SetCode("u1", "5678"); err != nil {
		t.Fatal(err)
	}
	events := len(s.Events())
	human := s.Participant("u1")
	if _, err := s.SubmitGuess("u1", "1123"); err != ErrInvalidGuess {
		t.Fatalf("err = %v, want ErrInvalidGuess", err)
	}
	if human.GuessCount() != 0 || human.Stress() != 0 {
		t.Fatal("rejected guess mutated participant state")
	}
	if len(s.Events()) != events {
		t.Fatal("rejected guess appended history")
	}
	if s.CurrentTurn() != "u1" {
		t.Fatalf("rejected guess advanced turn to %s", s.CurrentTurn())
	}
}
