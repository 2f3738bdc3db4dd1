// Package verification holds the process-wide store of short-lived email
// codes used for sign-up verification and password resets. Codes are kept
// in memory only: they are cheap to re-issue and must not survive restarts.
package verification

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
)

// Purpose separates the two code namespaces so a signup code can never
// satisfy a reset check or vice versa.
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeReset  Purpose = "reset"
)

// ErrInvalidOrExpired is returned when a code is absent, wrong, or past its
// TTL. The three cases are deliberately indistinguishable to the caller.
var ErrInvalidOrExpired = errors.New("invalid or expired code")

type codeEntry struct {
	code      string
	expiresAt time.Time
}

// Registry stores at most one live code per (email, purpose). Issue
// overwrites any previous entry; Consume is a check-and-delete under the
// lock, so concurrent consumers cannot both succeed on the same code.
type Registry struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]codeEntry
	now   func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:   ttl,
		codes: make(map[string]codeEntry),
		now:   time.Now,
	}
}

func key(email string, purpose Purpose) string {
	return string(purpose) + ":" + entity.NormalizeEmail(email)
}

// Issue generates a fresh 6-digit code for (email, purpose), replacing any
// unexpired prior one, and returns the code with its expiry.
func (r *Registry) Issue(email string, purpose Purpose) (string, time.Time, error) {
	code, err := GenCode()
	if err != nil {
		return "", time.Time{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	exp := r.now().Add(r.ttl)
	r.codes[key(email, purpose)] = codeEntry{code: code, expiresAt: exp}
	return code, exp, nil
}

// Consume validates and deletes the code in one step. Expired entries are
// removed lazily here; there is no background sweep.
func (r *Registry) Consume(email string, purpose Purpose, supplied string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(email, purpose)
	entry, ok := r.codes[k]
	if !ok {
		return ErrInvalidOrExpired
	}
	if r.now().After(entry.expiresAt) {
		delete(r.codes, k)
		return ErrInvalidOrExpired
	}
	if entry.code != supplied {
		return ErrInvalidOrExpired
	}
	delete(r.codes, k)
	return nil
}

// Peek reports the expiry of a live code without consuming it.
func (r *Registry) Peek(email string, purpose Purpose) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.codes[key(email, purpose)]
	if !ok || r.now().After(entry.expiresAt) {
		return time.Time{}, false
	}
	return entry.expiresAt, true
}

// GenCode generates a uniformly random 6-digit code as a zero-padded string.
func GenCode() (string, error) {
	// Rejection sampling keeps the distribution uniform over 000000-999999.
	const limit = 1_000_000
	max := uint32(4_294_000_000) // largest multiple of limit below 2^32
	for {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			return "", err
		}
		n := binary.BigEndian.Uint32(b[:])
		if n < max {
			return fmt.Sprintf("%06d", n%limit), nil
		}
	}
}
