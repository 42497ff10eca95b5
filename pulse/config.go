package pulse

import "fmt"

type Config struct {
	// TurnLimit caps the total number of scored guesses in PvP before
	// the session ends in a draw. 0 disables the limit.
	TurnLimit int

	// MaxGroupSize bounds how many humans may join a group session.
	MaxGroupSize int

	// RNG seed (0 => time-based)
	Seed int64
}

// DefaultConfig returns the settings used when the caller passes a zero Config.
func DefaultConfig() Config {
	return Config{
		TurnLimit:    0,
		MaxGroupSize: 10,
	}
}

func (c Config) validate() error {
	if c.TurnLimit < 0 {
		return fmt.Errorf("TurnLimit must be >= 0")
	}
	if c.MaxGroupSize < 2 {
		return fmt.Errorf("MaxGroupSize must be >= 2")
	}
	return nil
}
