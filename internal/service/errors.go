package service

import "errors"

var (
	ErrValidation  = errors.New("validation")  // malformed or out-of-range input
	ErrConflict    = errors.New("conflict")    // duplicate username
	ErrNotFound    = errors.New("not found")   // unknown listing or user
	ErrForbidden   = errors.New("forbidden")   // caller does not own the listing
	ErrUnavailable = errors.New("unavailable") // deleted, inactive or out of stock
	ErrNotLoaded   = errors.New("marketplace not loaded")
)
