// Package stats supplies the day's fixtures and each team's recent form.
package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/clever-tips/internal/models"
)

// FixtureSource lists the matches scheduled on a given day
type FixtureSource interface {
	Fixtures(ctx context.Context, day time.Time) ([]models.Fixture, error)
}

// FormProvider returns a team's recent record within a league
type FormProvider interface {
	Form(ctx context.Context, team, league string) (models.TeamForm, error)
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Error describes a failed call to a statistics provider
type Error struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Source, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

// Unwrap exposes the underlying cause. Transport and server failures also
// match models.ErrProviderUnavailable.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	switch e.Code {
	case ErrCodeNetworkError, ErrCodeServerError, ErrCodeRateLimitExceeded:
		errs = append(errs, models.ErrProviderUnavailable)
	}
	return errs
}

// newError creates a new provider error
func newError(source, code, message string, err error) *Error {
	return &Error{Source: source, Code: code, Message: message, Err: err}
}

// IsCode reports whether err is a provider error with the given code
func IsCode(err error, code string) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}
