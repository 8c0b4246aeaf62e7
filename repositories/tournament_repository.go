package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/saged-tournament/cricket-league/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	// ErrWriteConflict reports a lost optimistic-concurrency race: the
	// record changed between the read and the replace.
	ErrWriteConflict = errors.New("tournament was modified concurrently")
)

type ListTournamentsFilter struct {
	Search    string
	Type      string
	CreatedBy string
}

// TournamentRepository is the storage collaborator for tournament
// records. A tournament is persisted as one document; GetByID returns the
// version observed and Replace performs a compare-and-swap against it.
type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, int64, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Replace(ctx context.Context, id string, t *models.Tournament, version int64) error
	Delete(ctx context.Context, id string) error
	AnyReferencingTeam(ctx context.Context, teamID string) (bool, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tournament document: %w", err)
	}
	query := `INSERT INTO tournaments (id, doc, version, created_at) VALUES ($1, $2, 1, $3)`
	_, err = r.db.ExecContext(ctx, query, t.ID, doc, t.CreatedAt)
	return err
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, int64, error) {
	query := `SELECT doc, version FROM tournaments WHERE id = $1`

	var doc []byte
	var version int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&doc, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrTournamentNotFound
		}
		return nil, 0, err
	}

	t := &models.Tournament{}
	if err := json.Unmarshal(doc, t); err != nil {
		return nil, 0, fmt.Errorf("failed to decode tournament document %s: %w", id, err)
	}
	return t, version, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT doc FROM tournaments WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND doc->>'name' ILIKE $%d", argID)
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND doc->>'type' = $%d", argID)
		args = append(args, filter.Type)
		argID++
	}
	if filter.CreatedBy != "" {
		query += fmt.Sprintf(" AND doc->>'created_by' = $%d", argID)
		args = append(args, filter.CreatedBy)
		argID++
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var t models.Tournament
		if err := json.Unmarshal(doc, &t); err != nil {
			return nil, fmt.Errorf("failed to decode tournament document: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Replace(ctx context.Context, id string, t *models.Tournament, version int64) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tournament document: %w", err)
	}
	query := `UPDATE tournaments SET doc = $2, version = version + 1 WHERE id = $1 AND version = $3`
	result, err := r.db.ExecContext(ctx, query, id, doc, version)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Zero rows means either the record is gone or the version moved on.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tournaments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTournamentNotFound
	}
	return ErrWriteConflict
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) AnyReferencingTeam(ctx context.Context, teamID string) (bool, error) {
	ref, err := json.Marshal([]map[string]string{{"id": teamID}})
	if err != nil {
		return false, err
	}
	query := `SELECT EXISTS (SELECT 1 FROM tournaments WHERE doc->'teams' @> $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ref).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
