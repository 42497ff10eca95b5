package pulse

import "errors"

var (
	ErrInvalidGuess    = errors.New("guess must be 4 distinct digits")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrLockedOut       = errors.New("stress maxed out, no more guesses")
	ErrSessionOver     = errors.New("session already finished")
	ErrWrongPhase      = errors.New("operation not allowed in current phase")
	ErrNotParticipant  = errors.New("not a participant of this session")
	ErrCodeAlreadySet  = errors.New("code already set")
	ErrSessionFull     = errors.New("session is full")
	ErrAlreadyJoined   = errors.New("already joined")
	ErrNotEnoughPlayer = errors.New("not enough players to start")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
