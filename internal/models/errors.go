package models

import "errors"

// Custom errors
var (
	ErrInvalidForm         = errors.New("invalid team form")
	ErrInvalidFixture      = errors.New("invalid fixture")
	ErrInvalidPrediction   = errors.New("invalid prediction")
	ErrUnknownStrategy     = errors.New("unknown strategy")
	ErrProviderUnavailable = errors.New("statistics provider unavailable")
)
