package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNoCredential indicates no API key was configured for the provider.
var ErrNoCredential = errors.New("ai credential not configured")
