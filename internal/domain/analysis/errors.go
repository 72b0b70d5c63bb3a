package analysis

import "errors"

// ErrUnknownTopic is returned when a topic id is outside the fixed set.
var ErrUnknownTopic = errors.New("unknown analysis topic")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrSessionNotFound is returned for unknown or expired dashboard sessions.
var ErrSessionNotFound = errors.New("analysis session not found")
