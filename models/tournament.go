package models

import "time"

// TournamentStatus is monotonic in normal operation: once completed, a
// tournament stays completed unless an admin explicitly resets it.
type TournamentStatus string

const (
	StatusOngoing   TournamentStatus = "ongoing"
	StatusCompleted TournamentStatus = "completed"
)

func (s TournamentStatus) Valid() bool {
	return s == StatusOngoing || s == StatusCompleted
}

// Tournament is the unit of mutation: every operation reads the full
// record, computes a new full record, and writes it back. Teams, groups
// and the teams inside matches are point-in-time snapshots of the
// canonical team records.
type Tournament struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Teams     []Team            `json:"teams"`
	Matches   []Match           `json:"matches"`
	Groups    map[string][]Team `json:"groups,omitempty"`
	AdminCode string            `json:"admin_code,omitempty"`
	CreatedBy string            `json:"created_by"`
	CreatedAt time.Time         `json:"created_at"`
	Status    TournamentStatus  `json:"status"`
	Winner    *Team             `json:"winner,omitempty"`
	RunnerUp  *Team             `json:"runner_up,omitempty"`

	StageConfig
}

// MatchIndex returns the position of the match with the given id in the
// match list, or -1.
func (t *Tournament) MatchIndex(id string) int {
	for i := range t.Matches {
		if t.Matches[i].ID == id {
			return i
		}
	}
	return -1
}

// HasTeam reports whether the team id belongs to the tournament's team
// snapshot list.
func (t *Tournament) HasTeam(id string) bool {
	for i := range t.Teams {
		if t.Teams[i].ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so stores and callers never share mutable
// state through a returned record.
func (t *Tournament) Clone() *Tournament {
	c := *t
	c.Teams = cloneTeams(t.Teams)
	c.Matches = CloneMatches(t.Matches)
	c.Winner = cloneTeam(t.Winner)
	c.RunnerUp = cloneTeam(t.RunnerUp)
	if t.Groups != nil {
		c.Groups = make(map[string][]Team, len(t.Groups))
		for label, teams := range t.Groups {
			c.Groups[label] = cloneTeams(teams)
		}
	}
	return &c
}

// Public returns a copy safe to hand to unauthenticated readers: the
// admin code is blanked.
func (t *Tournament) Public() *Tournament {
	c := t.Clone()
	c.AdminCode = ""
	return c
}

// CloneMatches deep-copies a match list.
func CloneMatches(matches []Match) []Match {
	if matches == nil {
		return nil
	}
	out := make([]Match, len(matches))
	for i := range matches {
		out[i] = matches[i].Clone()
	}
	return out
}

func cloneTeams(teams []Team) []Team {
	if teams == nil {
		return nil
	}
	out := make([]Team, len(teams))
	for i := range teams {
		out[i] = *cloneTeam(&teams[i])
	}
	return out
}
