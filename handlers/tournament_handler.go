package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saged-tournament/cricket-league/middleware"
	"github.com/saged-tournament/cricket-league/models"
	"github.com/saged-tournament/cricket-league/repositories"
	"github.com/saged-tournament/cricket-league/services"
)

type TournamentHandler struct {
	tournaments services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournaments: ts}
}

// CreateHandler handles POST /tournaments. The admin code is returned
// once, here; reads never expose it again.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "User ID required")
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournaments.Create(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{
		"message":       "Tournament created successfully",
		"tournament_id": tournament.ID,
		"admin_code":    tournament.AdminCode,
		"tournament":    tournament.Public(),
	}); err != nil {
		serverErrorResponse(w, err)
	}
}

// GetByIDHandler handles GET /tournaments/{tournamentID}
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")

	tournament, err := h.tournaments.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament.Public()}); err != nil {
		serverErrorResponse(w, err)
	}
}

// ListHandler handles GET /tournaments with search/type/userId filters.
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ListTournamentsFilter{
		Search:    query.Get("search"),
		CreatedBy: query.Get("userId"),
	}
	if t := query.Get("type"); t != "" && t != "all" {
		filter.Type = t
	}

	tournaments, err := h.tournaments.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	public := make([]*models.Tournament, 0, len(tournaments))
	for i := range tournaments {
		public = append(public, tournaments[i].Public())
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": public}); err != nil {
		serverErrorResponse(w, err)
	}
}

// SetKnockoutHandler handles PUT /tournaments/{tournamentID}/knockout-teams
func (h *TournamentHandler) SetKnockoutHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")

	var input struct {
		AdminCode string         `json:"admin_code"`
		Matches   []models.Match `json:"matches"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	outcome, err := h.tournaments.SetKnockoutMatches(r.Context(), id, input.AdminCode, input.Matches)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"message":   "Knockout teams updated successfully",
		"winner":    outcome.Winner,
		"runner_up": outcome.RunnerUp,
	}); err != nil {
		serverErrorResponse(w, err)
	}
}

// RecordResultHandler handles PUT /tournaments/{tournamentID}/matches/{matchID}
func (h *TournamentHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")
	matchID := chi.URLParam(r, "matchID")

	var input struct {
		AdminCode  string `json:"admin_code"`
		Winner     string `json:"winner"`
		Team1Score *int   `json:"team1_score"`
		Team2Score *int   `json:"team2_score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	outcome, err := h.tournaments.RecordMatchResult(
		r.Context(), id, matchID, input.AdminCode, input.Winner, input.Team1Score, input.Team2Score,
	)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"message":   "Match result updated successfully",
		"winner":    outcome.Winner,
		"runner_up": outcome.RunnerUp,
	}); err != nil {
		serverErrorResponse(w, err)
	}
}

// UpdateStatusHandler handles PATCH /tournaments/{tournamentID}/status
func (h *TournamentHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")

	var input struct {
		AdminCode string                  `json:"admin_code"`
		Status    models.TournamentStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if input.Status == "" {
		errorResponse(w, http.StatusBadRequest, "Admin code and status required")
		return
	}

	if err := h.tournaments.SetStatus(r.Context(), id, input.AdminCode, input.Status); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Tournament status updated successfully"}); err != nil {
		serverErrorResponse(w, err)
	}
}

// VerifyAdminHandler handles POST /tournaments/{tournamentID}/verify-admin
func (h *TournamentHandler) VerifyAdminHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")

	var input struct {
		AdminCode string `json:"admin_code"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	valid, err := h.tournaments.VerifyAdminCode(r.Context(), id, input.AdminCode)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"valid": valid}); err != nil {
		serverErrorResponse(w, err)
	}
}

// DeleteHandler handles DELETE /tournaments/{tournamentID}
func (h *TournamentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")

	var input struct {
		AdminCode string `json:"admin_code"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.tournaments.Delete(r.Context(), id, input.AdminCode); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Tournament deleted successfully"}); err != nil {
		serverErrorResponse(w, err)
	}
}
