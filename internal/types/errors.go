package types

import "errors"

var (
	// ErrEmptyCandidate means the provider envelope had no candidates, no
	// content, or no parts with text. Not retryable: the call itself succeeded.
	ErrEmptyCandidate = errors.New("provider returned no usable candidate text")

	// ErrEmptyMessage rejects empty or whitespace-only chat input before any
	// transcript mutation happens.
	ErrEmptyMessage = errors.New("message must not be empty")

	ErrSessionNotFound = errors.New("chat session not found")

	ErrInvalidTheme = errors.New("theme must be light or dark")
)
