package uid

import "github.com/google/uuid"

// UUID generates RFC 9562 UUID strings.
type UUID struct {
	random bool
}

// NewUUID returns a generator of time ordered UUIDv7 values. They sort by
// creation time, which suits correlation ids in logs.
func NewUUID() *UUID {
	return &UUID{}
}

// NewRandomUUID returns a generator of UUIDv4 values. Session identifiers and
// lock tokens must not be guessable, so they use all 122 random bits.
func NewRandomUUID() *UUID {
	return &UUID{random: true}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	if u.random {
		return uuid.NewString()
	}

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
