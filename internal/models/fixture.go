package models

import (
	"strings"
	"time"
)

// Fixture is a scheduled match supplied by the schedule source
type Fixture struct {
	ID      string    `json:"id"`
	Home    string    `json:"home" validate:"required"`
	Away    string    `json:"away" validate:"required"`
	League  string    `json:"league"`
	Kickoff time.Time `json:"kickoff"`
}

// Day returns the kickoff date formatted as YYYY-MM-DD
func (f *Fixture) Day() string {
	if f.Kickoff.IsZero() {
		return ""
	}
	return f.Kickoff.Format("2006-01-02")
}

// Key returns a stable identifier for the fixture
func (f *Fixture) Key() string {
	if f.ID != "" {
		return f.ID
	}
	return strings.ToLower(strings.Join([]string{f.Day(), f.Home, f.Away}, ":"))
}
