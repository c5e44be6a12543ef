package domain

import "errors"

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileIncomplete = errors.New("profile is missing fields required for matching")
	ErrMatchNotFound     = errors.New("matched trial not found")
	ErrSessionNotFound   = errors.New("swipe session not found")
	ErrSearchUnavailable = errors.New("trial search is unavailable")
)
