package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/saged-tournament/cricket-league/models"
)

var ErrTeamNotFound = errors.New("team not found")

// TeamRepository stores canonical team records. The tournament engine
// reads them only at tournament-creation time, to take snapshots.
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Delete(ctx context.Context, id string) error
	UpdateLogoKey(ctx context.Context, id string, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, name, color, created_by, created_at, logo_key)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		team.ID, team.Name, team.Color, team.CreatedBy, team.CreatedAt, team.LogoKey,
	)
	return err
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT id, name, color, created_by, created_at, logo_key FROM teams WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.Color, &team.CreatedBy, &team.CreatedAt, &team.LogoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Team, error) {
	query := `SELECT id, name, color, created_by, created_at, logo_key FROM teams WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `SELECT id, name, color, created_by, created_at, logo_key FROM teams ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeams(rows)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id string, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $2 WHERE id = $1`, id, logoKey)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func scanTeams(rows *sql.Rows) ([]models.Team, error) {
	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID, &team.Name, &team.Color, &team.CreatedBy, &team.CreatedAt, &team.LogoKey,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}
