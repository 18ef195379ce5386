package models

import "errors"

// Sentinel errors shared across services and handlers. Handlers translate
// these into short user-facing messages instead of raw internals.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrIndustryNotSet  = errors.New("industry not set")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyAIResponse = errors.New("AI service returned empty response")
	ErrContentNotReady = errors.New("resume content not ready")
	ErrExportInFlight  = errors.New("export already in progress")
)
