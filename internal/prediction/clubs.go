package prediction

import "strings"

var defaultBigClubs = []string{
	"Real Madrid",
	"Barcelona",
	"Atletico Madrid",
	"Bayern Munich",
	"Borussia Dortmund",
	"Manchester City",
	"Manchester United",
	"Liverpool",
	"Arsenal",
	"Chelsea",
	"Tottenham",
	"Paris Saint-Germain",
	"PSG",
	"Juventus",
	"Inter",
	"AC Milan",
	"Napoli",
}

// ClubSet is a case-insensitive set of team names
type ClubSet map[string]struct{}

// NewClubSet builds a set from team names
func NewClubSet(names ...string) ClubSet {
	set := make(ClubSet, len(names))
	for _, name := range names {
		key := normalizeTeam(name)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

// DefaultBigClubs returns the fixed reputation set used by the default scorer
func DefaultBigClubs() ClubSet {
	return NewClubSet(defaultBigClubs...)
}

// Contains reports whether the team is in the set. Empty names never match.
func (s ClubSet) Contains(team string) bool {
	key := normalizeTeam(team)
	if key == "" {
		return false
	}
	_, ok := s[key]
	return ok
}

// Names returns the normalized names in the set
func (s ClubSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}

func normalizeTeam(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
