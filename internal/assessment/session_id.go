package assessment

import "github.com/google/uuid"

// NewSessionID returns an opaque handle correlating an attempt with its stored result.
func NewSessionID() string {
	return uuid.NewString()
}
