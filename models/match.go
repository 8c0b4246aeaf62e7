package models

// Match references its two teams by embedded snapshot, not live lookup.
// Scores and winner stay nil until a result is reported.
type Match struct {
	ID         string  `json:"id"`
	Stage      Stage   `json:"stage"`
	Team1      *Team   `json:"team1"`
	Team2      *Team   `json:"team2"`
	Team1Score *int    `json:"team1_score,omitempty"`
	Team2Score *int    `json:"team2_score,omitempty"`
	Winner     *string `json:"winner,omitempty"`
	Group      *string `json:"group,omitempty"`
}

// Valid reports whether the match is structurally sound: both teams
// present and distinct, and the winner (if set) one of the two team ids.
func (m Match) Valid() bool {
	if m.Team1 == nil || m.Team2 == nil || m.Team1.ID == m.Team2.ID {
		return false
	}
	if m.Winner != nil && *m.Winner != m.Team1.ID && *m.Winner != m.Team2.ID {
		return false
	}
	return true
}

// Pending reports whether the match has no winner yet.
func (m Match) Pending() bool {
	return m.Winner == nil
}

// TeamByID returns the embedded team snapshot with the given id, or nil.
func (m Match) TeamByID(id string) *Team {
	if m.Team1 != nil && m.Team1.ID == id {
		return m.Team1
	}
	if m.Team2 != nil && m.Team2.ID == id {
		return m.Team2
	}
	return nil
}

// Clone returns a deep copy of the match.
func (m Match) Clone() Match {
	c := m
	c.Team1 = cloneTeam(m.Team1)
	c.Team2 = cloneTeam(m.Team2)
	c.Team1Score = cloneInt(m.Team1Score)
	c.Team2Score = cloneInt(m.Team2Score)
	c.Winner = cloneString(m.Winner)
	c.Group = cloneString(m.Group)
	return c
}

func cloneTeam(t *Team) *Team {
	if t == nil {
		return nil
	}
	c := *t
	c.LogoKey = cloneString(t.LogoKey)
	c.LogoURL = cloneString(t.LogoURL)
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
