package pulse

import "testing"

func newTestPVP(t *testing.T, cfg Config) *PVPSession {
	t.Helper()
	if cfg == (Config{}) {
		cfg = Config{MaxGroupSize: 10}
	}
	s, err := NewPVP("chat-2", cfg, "a", "Ada", "b", "Bo")
	if err != nil {
		t.Fatalf("NewPVP: %v", err)
	}
	return s
}

func TestPVPRequiresBothCodes(t *testing.T) {
	s := newTestPVP(t, Config{})
	if err := s.SetCode("a", "1234"); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseCodeSetup {
		t.Fatalf("phase with one code = %s, want code_setup", s.Phase())
	}
	if _, err := s.SubmitGuess("a", "5678"); err != ErrWrongPhase {
		t.Fatalf("guess during setup err = %v, want ErrWrongPhase", err)
	}
	if err := s.SetCode("b", "5678"); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseInProgress {
		t.Fatalf("phase with both codes = %s, want in_progress", s.Phase())
	}
}

func TestPVPStrictAlternation(t *testing.T) {
	s := newTestPVP(t, Config{})
	if err := s.SetCode("a", "1234"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCode("b", "5678"); err != nil {
		t.Fatal(err)
	}
	out, err := s.SubmitGuess("a", "0123")
	if err != nil {
		t.Fatal(err)
	}
	if out.NextTurn != "b" {
		t.Fatalf("next turn after a = %s, want b", out.NextTurn)
	}
	// A again before B: rejected, and the turn must still point to B.
	if _, err := s.SubmitGuess("a", "0123"); err != ErrNotYourTurn {
		t.Fatalf("out-of-turn err = %v, want ErrNotYourTurn", err)
	}
	if s.CurrentTurn() != "b" {
		t.Fatalf("turn after rejection = %s, want b", s.CurrentTurn())
	}
	if _, err := s.SubmitGuess("b", "9876"); err != nil {
		t.Fatal(err)
	}
	if s.CurrentTurn() != "a" {
		t.Fatalf("turn after b = %s, want a", s.CurrentTurn())
	}
}

func TestPVPWin(t *testing.T) {
	s := newTestPVP(t, Config{})
	if err := s.SetCode("a", "1234"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCode("b", "5678"); err != nil {
		t.Fatal(err)
	}
	out, err := s.SubmitGuess("a", "5678")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Won || s.Winner() != "a" || s.Phase() != PhaseFinished {
		t.Fatalf("win not recorded: out=%+v winner=%s phase=%s", out, s.Winner(), s.Phase())
	}
}

func TestPVPTurnLimitDraw(t *testing.T) {
	s := newTestPVP(t, Config{TurnLimit: 2, MaxGroupSize: 10})
	if err := s.SetCode("a", "1234"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCode("b", "5678"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitGuess("a", "9012"); err != nil {
		t.Fatal(err)
	}
	out, err := s.SubmitGuess("b", "9012")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Draw {
		t.Fatalf("outcome = %+v, want draw at turn limit", out)
	}
	if s.Phase() != PhaseFinished || s.Winner() != "" {
		t.Fatalf("draw not terminal: phase=%s winner=%q", s.Phase(), s.Winner())
	}
}

func TestPVPCancelFromSetup(t *testing.T) {
	s := newTestPVP(t, Config{})
	s.Cancel()
	if s.Phase() != PhaseCancelled {
		t.Fatalf("phase = %s, want cancelled", s.Phase())
	}
	if err := s.SetCode("a", "1234"); err != ErrWrongPhase {
		t.Fatalf("SetCode after cancel err = %v, want ErrWrongPhase", err)
	}
}
