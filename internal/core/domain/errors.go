package domain

import "errors"

var (
	// ErrNotFound indicates the requested draft does not exist.
	ErrNotFound = errors.New("domain: not found")

	// ErrInvalidName indicates a missing or blank playlist name at publish time.
	ErrInvalidName = errors.New("domain: playlist name cannot be empty")

	// ErrEmptyDraft indicates a publish attempt on a draft with no songs.
	ErrEmptyDraft = errors.New("domain: draft has no songs")
)
