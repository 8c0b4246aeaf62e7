package brackets

import (
	"sort"

	"github.com/saged-tournament/cricket-league/models"
)

const pointsPerWin = 2

// Standing is one row of a derived group table. Standings are never
// stored; they are recomputed from the matches tagged with the group.
type Standing struct {
	Team   models.Team `json:"team"`
	Played int         `json:"played"`
	Won    int         `json:"won"`
	Lost   int         `json:"lost"`
	Points int         `json:"points"`
}

// Standings derives the table for one group from resolved matches tagged
// with that group. Pending matches do not count as played. Rows are
// ordered by points, then wins, then team name for a stable output.
func Standings(matches []models.Match, group string) []Standing {
	rows := make(map[string]*Standing)
	order := make([]string, 0)

	track := func(team *models.Team) *Standing {
		row, ok := rows[team.ID]
		if !ok {
			row = &Standing{Team: *team}
			rows[team.ID] = row
			order = append(order, team.ID)
		}
		return row
	}

	for i := range matches {
		m := &matches[i]
		if m.Group == nil || *m.Group != group || !m.Stage.IsGroupPlay() {
			continue
		}
		if m.Team1 == nil || m.Team2 == nil {
			continue
		}
		r1 := track(m.Team1)
		r2 := track(m.Team2)
		if m.Pending() {
			continue
		}
		r1.Played++
		r2.Played++
		switch *m.Winner {
		case m.Team1.ID:
			r1.Won++
			r1.Points += pointsPerWin
			r2.Lost++
		case m.Team2.ID:
			r2.Won++
			r2.Points += pointsPerWin
			r1.Lost++
		}
	}

	table := make([]Standing, 0, len(order))
	for _, id := range order {
		table = append(table, *rows[id])
	}
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].Won != table[j].Won {
			return table[i].Won > table[j].Won
		}
		return table[i].Team.Name < table[j].Team.Name
	})
	return table
}
