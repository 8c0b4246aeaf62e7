package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/saged-tournament/cricket-league/models"
)

// InMemoryTournamentRepository implements the same versioned contract as
// the Postgres store: every read hands out a private clone together with
// the version observed, and Replace compares-and-swaps on that version.
// Used by tests and local runs without a database.
type InMemoryTournamentRepository struct {
	mu      sync.RWMutex
	records map[string]*memoryRecord
}

type memoryRecord struct {
	doc     *models.Tournament
	version int64
}

func NewInMemoryTournamentRepository() *InMemoryTournamentRepository {
	return &InMemoryTournamentRepository{records: make(map[string]*memoryRecord)}
}

func (r *InMemoryTournamentRepository) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[t.ID] = &memoryRecord{doc: t.Clone(), version: 1}
	return nil
}

func (r *InMemoryTournamentRepository) GetByID(_ context.Context, id string) (*models.Tournament, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, 0, ErrTournamentNotFound
	}
	return rec.doc.Clone(), rec.version, nil
}

func (r *InMemoryTournamentRepository) List(_ context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tournaments := make([]models.Tournament, 0, len(r.records))
	for _, rec := range r.records {
		t := rec.doc
		if filter.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.CreatedBy != "" && t.CreatedBy != filter.CreatedBy {
			continue
		}
		tournaments = append(tournaments, *t.Clone())
	}
	sort.Slice(tournaments, func(i, j int) bool {
		return tournaments[i].CreatedAt.After(tournaments[j].CreatedAt)
	})
	return tournaments, nil
}

func (r *InMemoryTournamentRepository) Replace(_ context.Context, id string, t *models.Tournament, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return ErrTournamentNotFound
	}
	if rec.version != version {
		return ErrWriteConflict
	}
	rec.doc = t.Clone()
	rec.version++
	return nil
}

func (r *InMemoryTournamentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return ErrTournamentNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *InMemoryTournamentRepository) AnyReferencingTeam(_ context.Context, teamID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.doc.HasTeam(teamID) {
			return true, nil
		}
	}
	return false, nil
}

// InMemoryTeamRepository mirrors the Postgres team store.
type InMemoryTeamRepository struct {
	mu    sync.RWMutex
	teams map[string]models.Team
}

func NewInMemoryTeamRepository() *InMemoryTeamRepository {
	return &InMemoryTeamRepository{teams: make(map[string]models.Team)}
}

func (r *InMemoryTeamRepository) Create(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[team.ID] = *team
	return nil
}

func (r *InMemoryTeamRepository) GetByID(_ context.Context, id string) (*models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return &team, nil
}

func (r *InMemoryTeamRepository) GetByIDs(_ context.Context, ids []string) ([]models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	teams := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		if team, ok := r.teams[id]; ok {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (r *InMemoryTeamRepository) List(_ context.Context) ([]models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	teams := make([]models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].CreatedAt.After(teams[j].CreatedAt)
	})
	return teams, nil
}

func (r *InMemoryTeamRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[id]; !ok {
		return ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *InMemoryTeamRepository) UpdateLogoKey(_ context.Context, id string, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return ErrTeamNotFound
	}
	team.LogoKey = logoKey
	r.teams[id] = team
	return nil
}
