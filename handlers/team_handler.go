package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saged-tournament/cricket-league/middleware"
	"github.com/saged-tournament/cricket-league/services"
)

const maxLogoBytes = 5 << 20 // 5MB

type TeamHandler struct {
	teams services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teams: ts}
}

// ListHandler handles GET /teams
func (h *TeamHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}); err != nil {
		serverErrorResponse(w, err)
	}
}

// CreateHandler handles POST /teams
func (h *TeamHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "User ID required")
		return
	}

	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	team, err := h.teams.Create(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{
		"message": "Team added successfully",
		"team_id": team.ID,
		"team":    team,
	}); err != nil {
		serverErrorResponse(w, err)
	}
}

// DeleteHandler handles DELETE /teams/{teamID}
func (h *TeamHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "User ID required")
		return
	}
	id := chi.URLParam(r, "teamID")

	if err := h.teams.Delete(r.Context(), id, userID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Team deleted successfully"}); err != nil {
		serverErrorResponse(w, err)
	}
}

// UploadLogoHandler handles POST /teams/{teamID}/logo (multipart form,
// field "logo").
func (h *TeamHandler) UploadLogoHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.UserIDFromContext(r.Context()); err != nil {
		errorResponse(w, http.StatusUnauthorized, "User ID required")
		return
	}
	id := chi.URLParam(r, "teamID")

	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		badRequestResponse(w, err)
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	team, err := h.teams.UploadLogo(r.Context(), id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"message": "Logo uploaded successfully",
		"team":    team,
	}); err != nil {
		serverErrorResponse(w, err)
	}
}
