package brackets

import "github.com/saged-tournament/cricket-league/models"

// Resolve determines the tournament winner and runner-up from the match
// list. It returns (nil, nil) when no Final exists, when the Final has no
// winner yet, and when the recorded winner matches neither side of the
// Final. The last case means a malformed record made it into storage; it
// must never be turned into a wrong runner-up.
func Resolve(matches []models.Match, cfg models.StageConfig) (winner, runnerUp *models.Team) {
	var final *models.Match
	for i := range matches {
		if cfg.IsTerminal(matches[i].Stage) {
			final = &matches[i]
			break
		}
	}
	if final == nil || final.Winner == nil {
		return nil, nil
	}
	if final.Team1 == nil || final.Team2 == nil {
		return nil, nil
	}

	switch *final.Winner {
	case final.Team1.ID:
		return final.Team1, final.Team2
	case final.Team2.ID:
		return final.Team2, final.Team1
	default:
		return nil, nil
	}
}
