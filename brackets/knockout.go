package brackets

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/saged-tournament/cricket-league/models"
)

var (
	ErrDuplicateMatchID = errors.New("duplicate match id in match set")
	ErrMatchIDRequired  = errors.New("match id is required")
	ErrInvalidMatch     = errors.New("match is structurally invalid")
	ErrUnknownTeam      = errors.New("match references a team outside the tournament")
	ErrIncompleteStage  = errors.New("group play is not complete")
	ErrUnknownFormat    = errors.New("unsupported knockout format")
	ErrSeedCount        = errors.New("knockout seeding needs an even number of at least 2 teams")
)

// ValidateMatchSet checks a supplied match list against a tournament:
// every id unique and non-empty, every referenced team a member of the
// tournament's team snapshot list, every match structurally valid.
func ValidateMatchSet(t *models.Tournament, matches []models.Match) error {
	seen := make(map[string]struct{}, len(matches))
	for i := range matches {
		m := &matches[i]
		if m.ID == "" {
			return ErrMatchIDRequired
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateMatchID, m.ID)
		}
		seen[m.ID] = struct{}{}

		if !m.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidMatch, m.ID)
		}
		if !t.HasTeam(m.Team1.ID) {
			return fmt.Errorf("%w: match %s, team %s", ErrUnknownTeam, m.ID, m.Team1.ID)
		}
		if !t.HasTeam(m.Team2.ID) {
			return fmt.Errorf("%w: match %s, team %s", ErrUnknownTeam, m.ID, m.Team2.ID)
		}
	}
	return nil
}

// EnsureStageComplete rejects a match set that populates the knockout
// bracket while group or league play still has pending matches.
func EnsureStageComplete(matches []models.Match) error {
	hasKnockout := false
	for i := range matches {
		if !matches[i].Stage.IsGroupPlay() {
			hasKnockout = true
			break
		}
	}
	if !hasKnockout {
		return nil
	}
	for i := range matches {
		m := &matches[i]
		if m.Stage.IsGroupPlay() && m.Pending() {
			return fmt.Errorf("%w: match %s is still pending", ErrIncompleteStage, m.ID)
		}
	}
	return nil
}

// SeedKnockout pairs ranked teams into an entry round using the standard
// scheme: rank 1 vs rank N, rank 2 vs rank N-1, and so on. The engine
// never calls this on its own; the knockout match list is accepted as
// supplied, and this helper exists for callers that want server-side
// seeding instead of building the bracket themselves.
func SeedKnockout(ranked []models.Team, entry models.Stage, format models.KnockoutFormat) ([]models.Match, error) {
	switch format {
	case models.KnockoutFormatStandard, "":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	n := len(ranked)
	if n < 2 || n%2 != 0 {
		return nil, ErrSeedCount
	}

	matches := make([]models.Match, 0, n/2)
	for i := 0; i < n/2; i++ {
		top := ranked[i]
		bottom := ranked[n-1-i]
		matches = append(matches, models.Match{
			ID:    uuid.NewString(),
			Stage: entry,
			Team1: &top,
			Team2: &bottom,
		})
	}
	return matches, nil
}
