package service

import "errors"

// Sentinel errors the handlers translate into user-facing chat replies.
var (
	// ErrNotOnboarded gates content commands behind a completed onboarding.
	ErrNotOnboarded = errors.New("service: business not onboarded")

	// ErrNoBusiness means the caller has no business mapping at all.
	ErrNoBusiness = errors.New("service: no business for user")

	// ErrNoDocument means the business collection holds no research yet.
	ErrNoDocument = errors.New("service: no research document")

	ErrNoKeywords     = errors.New("service: no keywords generated yet")
	ErrNoAdVariations = errors.New("service: no ad variations generated yet")
	ErrNoCredentials  = errors.New("service: no ads credentials uploaded")
)
