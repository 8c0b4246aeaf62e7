package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saged-tournament/cricket-league/models"
	"github.com/saged-tournament/cricket-league/repositories"
	"github.com/saged-tournament/cricket-league/storage"
)

type CreateTeamInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type TeamService interface {
	Create(ctx context.Context, creatorID string, input CreateTeamInput) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Delete(ctx context.Context, id, requesterID string) error
	UploadLogo(ctx context.Context, teamID, contentType string, reader io.Reader) (*models.Team, error)
}

type teamService struct {
	teams       repositories.TeamRepository
	tournaments repositories.TournamentRepository
	uploader    storage.FileUploader
	logger      *slog.Logger
}

// NewTeamService manages the canonical team aggregate. uploader may be
// nil; logo uploads then fail with ErrUploadsDisabled.
func NewTeamService(
	teams repositories.TeamRepository,
	tournaments repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teams:       teams,
		tournaments: tournaments,
		uploader:    uploader,
		logger:      logger,
	}
}

func (s *teamService) Create(ctx context.Context, creatorID string, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" || input.Color == "" {
		return nil, ErrTeamFieldsRequired
	}

	team := &models.Team{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Color:     input.Color,
		CreatedBy: creatorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.Info("team created", slog.String("team_id", team.ID), slog.String("name", team.Name))
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		s.fillLogoURL(&teams[i])
	}
	return teams, nil
}

// Delete removes a canonical team record. It is blocked while any
// tournament still embeds the team: past tournaments keep their
// snapshots, but the canonical record must not vanish under an ongoing
// reference. Ownership is not disclosed: a foreign team reads as absent.
func (s *teamService) Delete(ctx context.Context, id, requesterID string) error {
	referenced, err := s.tournaments.AnyReferencingTeam(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrTeamInUse
	}

	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	if team.CreatedBy != requesterID {
		return ErrTeamNotFound
	}

	if err := s.teams.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	if team.LogoKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *team.LogoKey); err != nil {
			s.logger.Warn("failed to delete team logo",
				slog.String("team_id", id), slog.Any("error", err))
		}
	}
	s.logger.Info("team deleted", slog.String("team_id", id))
	return nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID, contentType string, reader io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("teams/%s/logo", teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, err
	}
	if err := s.teams.UpdateLogoKey(ctx, teamID, &result.Key); err != nil {
		return nil, err
	}

	team.LogoKey = &result.Key
	s.fillLogoURL(team)
	return team, nil
}

func (s *teamService) fillLogoURL(team *models.Team) {
	if team.LogoKey == nil || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.LogoKey)
	if url != "" {
		team.LogoURL = &url
	}
}
