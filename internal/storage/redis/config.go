package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// RoomTTL bounds how long an abandoned room key lingers.
	// Rooms are deleted explicitly when they empty; the TTL is a backstop.
	RoomTTL time.Duration

	// ClientTTL bounds the client-to-room index entries. Client identities
	// are socket-scoped, so stale entries have no value.
	ClientTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		RoomTTL:      24 * time.Hour,
		ClientTTL:    24 * time.Hour,
	}
}
