package model

import "errors"

// Classification outcomes. None of these ever reach a pipeline caller; they are
// recovered locally and end as an unknown item at worst.
var (
	ErrNoMatch                   = errors.New("no rule matched")
	ErrMalformedFallbackResponse = errors.New("malformed fallback response")
	ErrUpstreamUnavailable       = errors.New("fallback upstream unavailable")
	ErrInvalidCalendarDate       = errors.New("invalid calendar date")
)

// Chip workflow and session errors
var (
	ErrChipNotFound    = errors.New("chip not found")
	ErrChipFinalized   = errors.New("chip already confirmed or rejected")
	ErrUnknownKind     = errors.New("unknown kind")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
)
