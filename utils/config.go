// File: utils/config.go
package utils

// Config holds all configurable market parameters.
type Config struct {
	// Actors
	MailboxSize int // Pending requests an actor queues before senders block

	// Demo scenario
	StartingGold uint64 // Balance each demo buyer begins with
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	return Config{
		MailboxSize:  100,
		StartingGold: 1000,
	}
}
