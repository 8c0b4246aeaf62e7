package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/saged-tournament/cricket-league/brackets"
	"github.com/saged-tournament/cricket-league/repositories"
	"github.com/saged-tournament/cricket-league/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.Contains(err.Error(), "request body too large"):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	if err := writeJSON(w, status, jsonResponse{"message": message}); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, err error) {
	slog.Error("internal server error", slog.Any("error", err))
	errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusNotFound, err.Error())
}

func forbiddenResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusForbidden, err.Error())
}

func conflictResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusConflict, err.Error())
}

// mapServiceErrorToHTTP translates the engine's error taxonomy into HTTP
// statuses. Every branch keeps the specific message so the client can
// render it ("Invalid admin code" vs a generic failure).
func mapServiceErrorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrTournamentNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrTeamNotFound):
		notFoundResponse(w, err)

	case errors.Is(err, services.ErrAdminCodeRequired):
		badRequestResponse(w, err)
	case errors.Is(err, services.ErrInvalidAdminCode):
		forbiddenResponse(w, err)

	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrTypeRequired),
		errors.Is(err, services.ErrNotEnoughTeams),
		errors.Is(err, services.ErrDuplicateTeam),
		errors.Is(err, services.ErrTeamFieldsRequired),
		errors.Is(err, services.ErrWinnerRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrMalformedMatch):
		badRequestResponse(w, err)

	case errors.Is(err, brackets.ErrDuplicateMatchID),
		errors.Is(err, brackets.ErrMatchIDRequired),
		errors.Is(err, brackets.ErrInvalidMatch),
		errors.Is(err, brackets.ErrUnknownTeam),
		errors.Is(err, brackets.ErrIncompleteStage),
		errors.Is(err, brackets.ErrUnknownFormat),
		errors.Is(err, brackets.ErrSeedCount):
		badRequestResponse(w, err)

	case errors.Is(err, services.ErrTeamInUse):
		badRequestResponse(w, err)
	case errors.Is(err, repositories.ErrWriteConflict):
		conflictResponse(w, err)
	case errors.Is(err, services.ErrUploadsDisabled):
		errorResponse(w, http.StatusServiceUnavailable, err.Error())

	default:
		serverErrorResponse(w, err)
	}
}
