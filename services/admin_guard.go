package services

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"github.com/saged-tournament/cricket-league/models"
)

const (
	adminCodeLength   = 8
	adminCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// AdminGuard gates every mutating tournament operation behind the
// per-tournament admin code. The code is a shared capability, not a
// per-user credential: anyone holding it may mutate the tournament.
// Isolating the check behind this interface lets a stronger scheme
// replace it without touching the progression engine.
type AdminGuard interface {
	// Authorize returns ErrAdminCodeRequired for an empty code and
	// ErrInvalidAdminCode for a mismatch.
	Authorize(t *models.Tournament, code string) error

	// NewCode generates a short human-typable admin code. Uniqueness
	// across tournaments is not guaranteed.
	NewCode() (string, error)
}

type adminCodeGuard struct{}

func NewAdminGuard() AdminGuard {
	return adminCodeGuard{}
}

func (adminCodeGuard) Authorize(t *models.Tournament, code string) error {
	if code == "" {
		return ErrAdminCodeRequired
	}
	// Constant-time comparison; the contract is still exact equality.
	if subtle.ConstantTimeCompare([]byte(t.AdminCode), []byte(code)) != 1 {
		return ErrInvalidAdminCode
	}
	return nil
}

func (adminCodeGuard) NewCode() (string, error) {
	buf := make([]byte, adminCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate admin code: %w", err)
	}
	for i, b := range buf {
		buf[i] = adminCodeAlphabet[int(b)%len(adminCodeAlphabet)]
	}
	return string(buf), nil
}
