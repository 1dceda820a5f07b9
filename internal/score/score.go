package score

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRoster is returned when a roster cannot be used to build a report
var ErrInvalidRoster = errors.New("invalid roster")

// Player is a participant of the prediction game
type Player struct {
	Name   string `json:"name" koanf:"name"`     // Display name used in report headers
	Handle string `json:"handle" koanf:"handle"` // Name the scores appear under in the leaderboard
}

// Roster is the ordered set of players a report covers. Its order is the column order of
// every rendered table.
type Roster []Player

// Validate checks that the roster is non-empty and that every player has a name and a
// unique handle
func (r Roster) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: no players configured", ErrInvalidRoster)
	}

	seen := make(map[string]bool, len(r))
	for i, p := range r {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalidRoster, i)
		}
		if strings.TrimSpace(p.Handle) == "" {
			return fmt.Errorf("%w: player %q has no handle", ErrInvalidRoster, p.Name)
		}
		if seen[p.Handle] {
			return fmt.Errorf("%w: duplicate handle %q", ErrInvalidRoster, p.Handle)
		}
		seen[p.Handle] = true
	}

	return nil
}

// Names returns the display names in roster order
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, p := range r {
		names[i] = p.Name
	}
	return names
}

// Triple holds one player's scores for a race weekend
type Triple struct {
	Qualifying int `json:"qualifying"`
	Race       int `json:"race"`
}

// Weekend returns the weekend total, qualifying plus race
func (t Triple) Weekend() int {
	return t.Qualifying + t.Race
}

// Value projects the triple onto a score column
func (t Triple) Value(c Column) int {
	switch c {
	case Qualifying:
		return t.Qualifying
	case Race:
		return t.Race
	default:
		return t.Weekend()
	}
}

// RaceRecord is the scores of every roster player for one race, keyed by handle
type RaceRecord struct {
	Key    string            `json:"key"`
	Scores map[string]Triple `json:"scores"`
}

// Season is the ordered list of races found in a leaderboard. Races keep the order they
// appear in the source document.
type Season struct {
	Races []RaceRecord `json:"races"`
}

// Keys returns the race keys in document order
func (s *Season) Keys() []string {
	keys := make([]string, len(s.Races))
	for i, r := range s.Races {
		keys[i] = r.Key
	}
	return keys
}

// Series projects one player's scores for a column across all races, in race order
func (s *Season) Series(handle string, c Column) []int {
	values := make([]int, 0, len(s.Races))
	for _, r := range s.Races {
		values = append(values, r.Scores[handle].Value(c))
	}
	return values
}
