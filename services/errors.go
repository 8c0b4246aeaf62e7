package services

import "errors"

// Errors shared across services and the HTTP mapping. Validation and
// authorization failures are always detected before any mutation is
// computed or persisted.
var (
	// Missing resources
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")

	// Request-shape and validation failures
	ErrNameRequired       = errors.New("tournament name is required")
	ErrTypeRequired       = errors.New("tournament type is required")
	ErrNotEnoughTeams     = errors.New("at least 2 teams are required")
	ErrDuplicateTeam      = errors.New("duplicate team in tournament")
	ErrTeamFieldsRequired = errors.New("team name and color are required")
	ErrWinnerRequired     = errors.New("match winner is required")
	ErrInvalidStatus      = errors.New("invalid tournament status")
	ErrMalformedMatch     = errors.New("winner must be one of the match teams")

	// Authorization. A missing code is a request-shape issue, a mismatch
	// is an authorization failure; the two map to different HTTP statuses.
	ErrAdminCodeRequired = errors.New("admin code required")
	ErrInvalidAdminCode  = errors.New("invalid admin code")

	// Conflicts
	ErrTeamInUse = errors.New("cannot delete team that is used in tournaments")

	// Features requiring optional infrastructure
	ErrUploadsDisabled = errors.New("logo uploads are not configured")
)
