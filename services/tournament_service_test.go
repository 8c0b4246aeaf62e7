package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saged-tournament/cricket-league/brackets"
	"github.com/saged-tournament/cricket-league/models"
	"github.com/saged-tournament/cricket-league/repositories"
	"github.com/saged-tournament/cricket-league/services"
)

type engineFixture struct {
	tournaments *repositories.InMemoryTournamentRepository
	teams       *repositories.InMemoryTeamRepository
	svc         services.TournamentService
}

func newEngineFixture(t *testing.T, teams ...models.Team) *engineFixture {
	t.Helper()
	tournamentRepo := repositories.NewInMemoryTournamentRepository()
	teamRepo := repositories.NewInMemoryTeamRepository()
	for i := range teams {
		require.NoError(t, teamRepo.Create(context.Background(), &teams[i]))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewTournamentService(tournamentRepo, teamRepo, services.NewAdminGuard(), nil, logger)
	return &engineFixture{tournaments: tournamentRepo, teams: teamRepo, svc: svc}
}

func fourTeams() []models.Team {
	return []models.Team{
		{ID: "a", Name: "Strikers", Color: "#f00"},
		{ID: "b", Name: "Blasters", Color: "#0f0"},
		{ID: "c", Name: "Royals", Color: "#00f"},
		{ID: "d", Name: "Titans", Color: "#ff0"},
	}
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func matchBetween(id string, stage models.Stage, t1, t2 *models.Team) models.Match {
	return models.Match{ID: id, Stage: stage, Team1: t1, Team2: t2}
}

func TestCreateTournament(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)

	created, err := f.svc.Create(context.Background(), "user-1", services.CreateTournamentInput{
		Name:    "Summer Cup",
		Type:    "knockout",
		TeamIDs: []string{"a", "b", "c", "d"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Len(t, created.AdminCode, 8)
	assert.Equal(t, "user-1", created.CreatedBy)
	assert.Equal(t, models.StatusOngoing, created.Status)
	assert.Len(t, created.Teams, 4)
	assert.Empty(t, created.Matches)

	// Stage configuration defaults.
	assert.Equal(t, 2, created.GroupCount)
	assert.Equal(t, models.StageSemiFinal, created.KnockoutStage)
	assert.True(t, created.HasGroupStage)
	assert.Equal(t, models.StageFinal, created.FinalStage)

	stored, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.AdminCode, stored.AdminCode)
}

func TestCreateTournamentSnapshotsTeams(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)

	created, err := f.svc.Create(context.Background(), "user-1", services.CreateTournamentInput{
		Name:    "Summer Cup",
		Type:    "league",
		TeamIDs: []string{"a", "b"},
	})
	require.NoError(t, err)

	// Renaming the canonical record must not leak into the snapshot.
	require.NoError(t, f.teams.Delete(context.Background(), "a"))
	require.NoError(t, f.teams.Create(context.Background(), &models.Team{ID: "a", Name: "Renamed"}))

	stored, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Strikers", stored.Teams[0].Name)
}

func TestCreateTournamentValidation(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	ctx := context.Background()

	cases := []struct {
		name    string
		input   services.CreateTournamentInput
		wantErr error
	}{
		{"missing name", services.CreateTournamentInput{Type: "league", TeamIDs: []string{"a", "b"}}, services.ErrNameRequired},
		{"missing type", services.CreateTournamentInput{Name: "Cup", TeamIDs: []string{"a", "b"}}, services.ErrTypeRequired},
		{"too few teams", services.CreateTournamentInput{Name: "Cup", Type: "league", TeamIDs: []string{"a"}}, services.ErrNotEnoughTeams},
		{"duplicate team", services.CreateTournamentInput{Name: "Cup", Type: "league", TeamIDs: []string{"a", "a"}}, services.ErrDuplicateTeam},
		{"unknown team", services.CreateTournamentInput{Name: "Cup", Type: "league", TeamIDs: []string{"a", "zz"}}, services.ErrTeamNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, "user-1", tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateTournamentWithGroupsAndMatches(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()

	created, err := f.svc.Create(context.Background(), "user-1", services.CreateTournamentInput{
		Name:    "Group Cup",
		Type:    "group",
		TeamIDs: []string{"a", "b", "c", "d"},
		Groups:  map[string][]string{"A": {"a", "b"}, "B": {"c", "d"}},
		Matches: []models.Match{
			matchBetween("", models.StageGroup, &teams[0], &teams[1]),
		},
	})
	require.NoError(t, err)

	assert.Len(t, created.Groups["A"], 2)
	assert.Len(t, created.Groups["B"], 2)
	require.Len(t, created.Matches, 1)
	assert.NotEmpty(t, created.Matches[0].ID, "blank match ids get assigned")
}

func TestCreateTournamentRejectsUnknownGroupMember(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)

	_, err := f.svc.Create(context.Background(), "user-1", services.CreateTournamentInput{
		Name:    "Group Cup",
		Type:    "group",
		TeamIDs: []string{"a", "b"},
		Groups:  map[string][]string{"A": {"a", "zz"}},
	})
	assert.ErrorIs(t, err, brackets.ErrUnknownTeam)
}

func createWithMatches(t *testing.T, f *engineFixture, matches []models.Match) *models.Tournament {
	t.Helper()
	created, err := f.svc.Create(context.Background(), "user-1", services.CreateTournamentInput{
		Name:    "Summer Cup",
		Type:    "knockout",
		TeamIDs: []string{"a", "b", "c", "d"},
		Matches: matches,
	})
	require.NoError(t, err)
	return created
}

func TestRecordMatchResultCompletesTournament(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	created := createWithMatches(t, f, []models.Match{
		matchBetween("f1", models.StageFinal, &teams[0], &teams[1]),
	})

	outcome, err := f.svc.RecordMatchResult(
		context.Background(), created.ID, "f1", created.AdminCode, "a", intPtr(180), intPtr(140),
	)
	require.NoError(t, err)

	require.NotNil(t, outcome.Winner)
	require.NotNil(t, outcome.RunnerUp)
	assert.Equal(t, "a", outcome.Winner.ID)
	assert.Equal(t, "b", outcome.RunnerUp.ID)

	stored, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	assert.Equal(t, "a", *stored.Matches[0].Winner)
	assert.Equal(t, 180, *stored.Matches[0].Team1Score)
	assert.Equal(t, 140, *stored.Matches[0].Team2Score)
}

func TestRecordMatchResultNonFinalLeavesStatus(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	created := createWithMatches(t, f, []models.Match{
		matchBetween("sf1", models.StageSemiFinal, &teams[0], &teams[1]),
		matchBetween("sf2", models.StageSemiFinal, &teams[2], &teams[3]),
	})

	outcome, err := f.svc.RecordMatchResult(
		context.Background(), created.ID, "sf1", created.AdminCode, "a", nil, nil,
	)
	require.NoError(t, err)
	assert.Nil(t, outcome.Winner)
	assert.Nil(t, outcome.RunnerUp)

	stored, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOngoing, stored.Status)
	assert.Nil(t, stored.Matches[1].Winner, "other match untouched")
}

func TestRecordMatchResultIdempotent(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	created := createWithMatches(t, f, []models.Match{
		matchBetween("f1", models.StageFinal, &teams[0], &teams[1]),
	})
	ctx := context.Background()

	_, err := f.svc.RecordMatchResult(ctx, created.ID, "f1", created.AdminCode, "a", intPtr(180), intPtr(140))
	require.NoError(t, err)
	first, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)

	_, err = f.svc.RecordMatchResult(ctx, created.ID, "f1", created.AdminCode, "a", intPtr(180), intPtr(140))
	require.NoError(t, err)
	second, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecordMatchResultPartialScoreUpdate(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	created := createWithMatches(t, f, []models.Match{
		matchBetween("f1", models.StageFinal, &teams[0], &teams[1]),
	})
	ctx := context.Background()

	_, err := f.svc.RecordMatchResult(ctx, created.ID, "f1", created.AdminCode, "a", intPtr(180), intPtr(140))
	require.NoError(t, err)

	// Only team2's score is corrected; team1's stays as stored.
	_, err = f.svc.RecordMatchResult(ctx, created.ID, "f1", created.AdminCode, "a", nil, intPtr(145))
	require.NoError(t, err)

	stored, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 180, *stored.Matches[0].Team1Score)
	assert.Equal(t, 145, *stored.Matches[0].Team2Score)
}

func TestRecordMatchResultErrors(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	created := createWithMatches(t, f, []models.Match{
		matchBetween("f1", models.StageFinal, &teams[0], &teams[1]),
	})
	ctx := context.Background()

	t.Run("winner required", func(t *testing.T) {
		_, err := f.svc.RecordMatchResult(ctx, created.ID, "f1", created.AdminCode, "", nil, nil)
		assert.ErrorIs(t, err, services.ErrWinnerRequired)
	})

	t.Run("unknown tournament", func(t *testing.T) {
		_, err := f.svc.RecordMatchResult(ctx, "missing", "f1", created.AdminCode, "a", nil, nil)
		assert.ErrorIs(t, err, services.ErrTournamentNotFound)
	})

	t.Run("unknown match", func(t *testing.T) {
		_, err := f.svc.RecordMatchResult(ctx, created.ID, "missing", created.AdminCode, "a", nil, nil)
		assert.ErrorIs(t, err, services.ErrMatchNotFound)
	})

	t.Run("winner not in match", func(t *testing.T) {
		_, err := f.svc.RecordMatchResult(ctx, created.ID, "f1", created.AdminCode, "c", nil, nil)
		assert.ErrorIs(t, err, services.ErrMalformedMatch)
	})
}

func TestAuthorizationFailureLeavesRecordUnchanged(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	created := createWithMatches(t, f, []models.Match{
		matchBetween("f1", models.StageFinal, &teams[0], &teams[1]),
	})
	ctx := context.Background()

	before, versionBefore, err := f.tournaments.GetByID(ctx, created.ID)
	require.NoError(t, err)

	_, err = f.svc.RecordMatchResult(ctx, created.ID, "f1", "WRONG123", "a", intPtr(10), nil)
	assert.ErrorIs(t, err, services.ErrInvalidAdminCode)

	_, err = f.svc.RecordMatchResult(ctx, created.ID, "f1", "", "a", intPtr(10), nil)
	assert.ErrorIs(t, err, services.ErrAdminCodeRequired)

	after, versionAfter, err := f.tournaments.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, versionBefore, versionAfter)
}

func TestSetKnockoutMatchesReplacesList(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	groupA := "A"
	created := createWithMatches(t, f, []models.Match{
		{ID: "g1", Stage: models.StageGroup, Group: &groupA, Team1: &teams[0], Team2: &teams[1], Winner: strPtr("a")},
		{ID: "g2", Stage: models.StageGroup, Group: &groupA, Team1: &teams[2], Team2: &teams[3], Winner: strPtr("c")},
	})
	ctx := context.Background()

	next := []models.Match{
		{ID: "g1", Stage: models.StageGroup, Group: &groupA, Team1: &teams[0], Team2: &teams[1], Winner: strPtr("a")},
		{ID: "g2", Stage: models.StageGroup, Group: &groupA, Team1: &teams[2], Team2: &teams[3], Winner: strPtr("c")},
		matchBetween("f1", models.StageFinal, &teams[0], &teams[2]),
	}

	outcome, err := f.svc.SetKnockoutMatches(ctx, created.ID, created.AdminCode, next)
	require.NoError(t, err)
	assert.Nil(t, outcome.Winner)

	stored, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, stored.Matches, 3, "list replaced, not appended")

	// Supplying the same list again is a no-op, not a duplication.
	_, err = f.svc.SetKnockoutMatches(ctx, created.ID, created.AdminCode, next)
	require.NoError(t, err)
	stored, err = f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Matches, 3)
}

func TestSetKnockoutMatchesRejectsIncompleteGroupPlay(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	groupA := "A"
	created := createWithMatches(t, f, nil)

	next := []models.Match{
		{ID: "g1", Stage: models.StageGroup, Group: &groupA, Team1: &teams[0], Team2: &teams[1]},
		matchBetween("f1", models.StageFinal, &teams[2], &teams[3]),
	}

	_, err := f.svc.SetKnockoutMatches(context.Background(), created.ID, created.AdminCode, next)
	assert.ErrorIs(t, err, brackets.ErrIncompleteStage)

	stored, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Matches)
}

func TestSetKnockoutMatchesCanDecideTournament(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	created := createWithMatches(t, f, nil)

	next := []models.Match{
		{ID: "f1", Stage: models.StageFinal, Team1: &teams[0], Team2: &teams[1], Winner: strPtr("b")},
	}

	outcome, err := f.svc.SetKnockoutMatches(context.Background(), created.ID, created.AdminCode, next)
	require.NoError(t, err)
	require.NotNil(t, outcome.Winner)
	assert.Equal(t, "b", outcome.Winner.ID)
	assert.Equal(t, "a", outcome.RunnerUp.ID)

	stored, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestConcurrentResultsOnDifferentMatchesBothLand(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	teams := fourTeams()
	created := createWithMatches(t, f, []models.Match{
		matchBetween("sf1", models.StageSemiFinal, &teams[0], &teams[1]),
		matchBetween("sf2", models.StageSemiFinal, &teams[2], &teams[3]),
	})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.svc.RecordMatchResult(ctx, created.ID, "sf1", created.AdminCode, "a", nil, nil)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.svc.RecordMatchResult(ctx, created.ID, "sf2", created.AdminCode, "d", nil, nil)
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	stored, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Matches[0].Winner)
	require.NotNil(t, stored.Matches[1].Winner)
	assert.Equal(t, "a", *stored.Matches[0].Winner)
	assert.Equal(t, "d", *stored.Matches[1].Winner)
}

func TestSetStatus(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	created := createWithMatches(t, f, nil)
	ctx := context.Background()

	t.Run("invalid status", func(t *testing.T) {
		err := f.svc.SetStatus(ctx, created.ID, created.AdminCode, "archived")
		assert.ErrorIs(t, err, services.ErrInvalidStatus)
	})

	t.Run("complete and reopen", func(t *testing.T) {
		require.NoError(t, f.svc.SetStatus(ctx, created.ID, created.AdminCode, models.StatusCompleted))
		stored, err := f.svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, stored.Status)

		require.NoError(t, f.svc.SetStatus(ctx, created.ID, created.AdminCode, models.StatusOngoing))
		stored, err = f.svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusOngoing, stored.Status)
	})

	t.Run("wrong code", func(t *testing.T) {
		err := f.svc.SetStatus(ctx, created.ID, "WRONG123", models.StatusCompleted)
		assert.ErrorIs(t, err, services.ErrInvalidAdminCode)
	})
}

func TestVerifyAdminCode(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	created := createWithMatches(t, f, nil)
	ctx := context.Background()

	valid, err := f.svc.VerifyAdminCode(ctx, created.ID, created.AdminCode)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = f.svc.VerifyAdminCode(ctx, created.ID, "WRONG123")
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = f.svc.VerifyAdminCode(ctx, created.ID, "")
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = f.svc.VerifyAdminCode(ctx, "missing", "ABCD1234")
	assert.ErrorIs(t, err, services.ErrTournamentNotFound)
}

func TestDeleteTournament(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	created := createWithMatches(t, f, nil)
	ctx := context.Background()

	t.Run("wrong code keeps the record", func(t *testing.T) {
		err := f.svc.Delete(ctx, created.ID, "WRONG123")
		assert.ErrorIs(t, err, services.ErrInvalidAdminCode)

		_, err = f.svc.Get(ctx, created.ID)
		assert.NoError(t, err)
	})

	t.Run("correct code deletes", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, created.ID, created.AdminCode))

		_, err := f.svc.Get(ctx, created.ID)
		assert.ErrorIs(t, err, services.ErrTournamentNotFound)
	})
}

func TestListTournamentsFilters(t *testing.T) {
	f := newEngineFixture(t, fourTeams()...)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "user-1", services.CreateTournamentInput{
		Name: "Summer Cup", Type: "knockout", TeamIDs: []string{"a", "b"},
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "user-2", services.CreateTournamentInput{
		Name: "Winter League", Type: "league", TeamIDs: []string{"c", "d"},
	})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, repositories.ListTournamentsFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byType, err := f.svc.List(ctx, repositories.ListTournamentsFilter{Type: "league"})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "Winter League", byType[0].Name)

	bySearch, err := f.svc.List(ctx, repositories.ListTournamentsFilter{Search: "summer"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Summer Cup", bySearch[0].Name)

	byCreator, err := f.svc.List(ctx, repositories.ListTournamentsFilter{CreatedBy: "user-2"})
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	assert.Equal(t, "user-2", byCreator[0].CreatedBy)
}
