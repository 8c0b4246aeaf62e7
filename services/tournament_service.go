package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/saged-tournament/cricket-league/brackets"
	"github.com/saged-tournament/cricket-league/live"
	"github.com/saged-tournament/cricket-league/models"
	"github.com/saged-tournament/cricket-league/repositories"
)

// CreateTournamentInput carries the creation payload. Stage configuration
// fields are optional; unset ones get the documented defaults, resolved
// once at construction.
type CreateTournamentInput struct {
	Name           string                 `json:"name"`
	Type           string                 `json:"type"`
	TeamIDs        []string               `json:"team_ids"`
	Matches        []models.Match         `json:"matches,omitempty"`
	Groups         map[string][]string    `json:"groups,omitempty"`
	GroupCount     *int                   `json:"group_count,omitempty"`
	KnockoutStage  *models.Stage          `json:"knockout_stage,omitempty"`
	KnockoutFormat *models.KnockoutFormat `json:"knockout_format,omitempty"`
	HasGroupStage  *bool                  `json:"has_group_stage,omitempty"`
}

// Outcome is the tournament-level result re-derived after a mutation that
// can decide the tournament.
type Outcome struct {
	Winner   *models.Team `json:"winner"`
	RunnerUp *models.Team `json:"runner_up"`
}

type TournamentService interface {
	Create(ctx context.Context, creatorID string, input CreateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	SetKnockoutMatches(ctx context.Context, id, adminCode string, matches []models.Match) (*Outcome, error)
	RecordMatchResult(ctx context.Context, id, matchID, adminCode, winner string, team1Score, team2Score *int) (*Outcome, error)
	SetStatus(ctx context.Context, id, adminCode string, status models.TournamentStatus) error
	VerifyAdminCode(ctx context.Context, id, code string) (bool, error)
	Delete(ctx context.Context, id, adminCode string) error
}

type tournamentService struct {
	repo     repositories.TournamentRepository
	teamRepo repositories.TeamRepository
	guard    AdminGuard
	coord    mutationCoordinator
	hub      *live.Hub
	logger   *slog.Logger
}

// NewTournamentService wires the progression engine. hub may be nil when
// live updates are not wanted (tests, batch tools).
func NewTournamentService(
	repo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	guard AdminGuard,
	hub *live.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		repo:     repo,
		teamRepo: teamRepo,
		guard:    guard,
		coord:    mutationCoordinator{repo: repo},
		hub:      hub,
		logger:   logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, creatorID string, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Type == "" {
		return nil, ErrTypeRequired
	}
	if len(input.TeamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}
	seen := make(map[string]struct{}, len(input.TeamIDs))
	for _, id := range input.TeamIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}
	}

	teams, err := s.snapshotTeams(ctx, input.TeamIDs)
	if err != nil {
		return nil, err
	}

	t := &models.Tournament{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Type:      input.Type,
		Teams:     teams,
		Matches:   []models.Match{},
		CreatedBy: creatorID,
		CreatedAt: time.Now().UTC(),
		Status:    models.StatusOngoing,
		StageConfig: models.ResolveStageConfig(
			input.GroupCount, input.KnockoutStage, input.KnockoutFormat, input.HasGroupStage,
		),
	}

	if len(input.Groups) > 0 {
		groups, err := resolveGroups(t, input.Groups)
		if err != nil {
			return nil, err
		}
		t.Groups = groups
	}

	if len(input.Matches) > 0 {
		matches := models.CloneMatches(input.Matches)
		assignMatchIDs(matches)
		if err := brackets.ValidateMatchSet(t, matches); err != nil {
			return nil, err
		}
		t.Matches = matches
	}

	code, err := s.guard.NewCode()
	if err != nil {
		return nil, err
	}
	t.AdminCode = code

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", t.ID),
		slog.String("type", t.Type),
		slog.Int("teams", len(t.Teams)))
	return t, nil
}

// snapshotTeams copies the canonical team records into the tournament.
// This is the only point where the engine touches the team aggregate.
func (s *tournamentService) snapshotTeams(ctx context.Context, ids []string) ([]models.Team, error) {
	teams := make([]models.Team, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			team, err := s.teamRepo.GetByID(gctx, id)
			if err != nil {
				if errors.Is(err, repositories.ErrTeamNotFound) {
					return fmt.Errorf("%w: %s", ErrTeamNotFound, id)
				}
				return err
			}
			teams[i] = *team
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return teams, nil
}

func resolveGroups(t *models.Tournament, input map[string][]string) (map[string][]models.Team, error) {
	groups := make(map[string][]models.Team, len(input))
	for label, ids := range input {
		members := make([]models.Team, 0, len(ids))
		for _, id := range ids {
			if !t.HasTeam(id) {
				return nil, fmt.Errorf("group %q: %w: %s", label, brackets.ErrUnknownTeam, id)
			}
			for i := range t.Teams {
				if t.Teams[i].ID == id {
					members = append(members, t.Teams[i])
					break
				}
			}
		}
		groups[label] = members
	}
	return groups, nil
}

func assignMatchIDs(matches []models.Match) {
	for i := range matches {
		if matches[i].ID == "" {
			matches[i].ID = uuid.NewString()
		}
	}
}

func (s *tournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	t, _, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return s.repo.List(ctx, filter)
}

// SetKnockoutMatches replaces the tournament's match list with the
// supplied one after group or league play. The caller computes the
// bracket; the engine validates that it is well formed and that group
// play is complete, then re-derives the tournament outcome. Supplying the
// same list twice is idempotent.
func (s *tournamentService) SetKnockoutMatches(ctx context.Context, id, adminCode string, matches []models.Match) (*Outcome, error) {
	updated, err := s.coord.Mutate(ctx, id, func(t *models.Tournament) error {
		if err := s.guard.Authorize(t, adminCode); err != nil {
			return err
		}
		next := models.CloneMatches(matches)
		assignMatchIDs(next)
		if err := brackets.ValidateMatchSet(t, next); err != nil {
			return err
		}
		if err := brackets.EnsureStageComplete(next); err != nil {
			return err
		}
		t.Matches = next
		s.resolveOutcome(t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(updated, live.EventBracketUpdated)
	return &Outcome{Winner: updated.Winner, RunnerUp: updated.RunnerUp}, nil
}

// RecordMatchResult applies one match result and re-derives the
// tournament outcome over the updated match list. Scores are a partial
// update: a nil score keeps the previously stored value, so a result may
// report only a winner. No other match is touched.
func (s *tournamentService) RecordMatchResult(ctx context.Context, id, matchID, adminCode, winner string, team1Score, team2Score *int) (*Outcome, error) {
	if winner == "" {
		return nil, ErrWinnerRequired
	}

	updated, err := s.coord.Mutate(ctx, id, func(t *models.Tournament) error {
		if err := s.guard.Authorize(t, adminCode); err != nil {
			return err
		}
		i := t.MatchIndex(matchID)
		if i < 0 {
			return ErrMatchNotFound
		}
		m := &t.Matches[i]
		if m.TeamByID(winner) == nil {
			return fmt.Errorf("%w: %s", ErrMalformedMatch, winner)
		}

		w := winner
		m.Winner = &w
		if team1Score != nil {
			score := *team1Score
			m.Team1Score = &score
		}
		if team2Score != nil {
			score := *team2Score
			m.Team2Score = &score
		}
		s.resolveOutcome(t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(updated, live.EventMatchUpdated)
	s.logger.Info("match result recorded",
		slog.String("tournament_id", id),
		slog.String("match_id", matchID),
		slog.Bool("completed", updated.Status == models.StatusCompleted))
	return &Outcome{Winner: updated.Winner, RunnerUp: updated.RunnerUp}, nil
}

// resolveOutcome re-derives winner and runner-up from the current match
// list and flips status to completed once a winner is determined. Status
// is otherwise left alone.
func (s *tournamentService) resolveOutcome(t *models.Tournament) {
	t.Winner, t.RunnerUp = brackets.Resolve(t.Matches, t.StageConfig)
	if t.Winner != nil {
		t.Status = models.StatusCompleted
	}
}

func (s *tournamentService) SetStatus(ctx context.Context, id, adminCode string, status models.TournamentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	updated, err := s.coord.Mutate(ctx, id, func(t *models.Tournament) error {
		if err := s.guard.Authorize(t, adminCode); err != nil {
			return err
		}
		t.Status = status
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(updated, live.EventStatusUpdated)
	return nil
}

func (s *tournamentService) VerifyAdminCode(ctx context.Context, id, code string) (bool, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	err = s.guard.Authorize(t, code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrAdminCodeRequired), errors.Is(err, ErrInvalidAdminCode):
		return false, nil
	default:
		return false, err
	}
}

func (s *tournamentService) Delete(ctx context.Context, id, adminCode string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(t, adminCode); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	s.logger.Info("tournament deleted", slog.String("tournament_id", id))
	return nil
}

// publish pushes the update to websocket subscribers after the record has
// been persisted, never before.
func (s *tournamentService) publish(t *models.Tournament, event string) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(t.ID, live.Message{Type: event, Payload: t.Public()})
	if t.Status == models.StatusCompleted && t.Winner != nil {
		s.hub.Publish(t.ID, live.Message{
			Type:    live.EventTournamentCompleted,
			Payload: Outcome{Winner: t.Winner, RunnerUp: t.RunnerUp},
		})
	}
}
