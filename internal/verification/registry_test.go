package verification

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndConsume(t *testing.T) {
	r := NewRegistry(5 * time.Minute)

	code, exp, err := r.Issue("User@Example.com", PurposeSignup)
	require.NoError(t, err)
	require.Len(t, code, 6)
	require.True(t, exp.After(time.Now()))

	// Lookup normalizes email case.
	require.NoError(t, r.Consume("user@example.com", PurposeSignup, code))

	// Single use.
	assert.ErrorIs(t, r.Consume("user@example.com", PurposeSignup, code), ErrInvalidOrExpired)
}

func TestConsumeWrongCode(t *testing.T) {
	r := NewRegistry(5 * time.Minute)
	code, _, err := r.Issue("a@x.com", PurposeSignup)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	assert.ErrorIs(t, r.Consume("a@x.com", PurposeSignup, wrong), ErrInvalidOrExpired)

	// A wrong attempt does not burn the code.
	assert.NoError(t, r.Consume("a@x.com", PurposeSignup, code))
}

func TestPurposesAreDisjoint(t *testing.T) {
	r := NewRegistry(5 * time.Minute)
	code, _, err := r.Issue("a@x.com", PurposeSignup)
	require.NoError(t, err)

	assert.ErrorIs(t, r.Consume("a@x.com", PurposeReset, code), ErrInvalidOrExpired)
	assert.NoError(t, r.Consume("a@x.com", PurposeSignup, code))
}

func TestIssueOverwritesPrevious(t *testing.T) {
	r := NewRegistry(5 * time.Minute)
	first, _, err := r.Issue("a@x.com", PurposeSignup)
	require.NoError(t, err)
	second, _, err := r.Issue("a@x.com", PurposeSignup)
	require.NoError(t, err)

	if first != second {
		assert.ErrorIs(t, r.Consume("a@x.com", PurposeSignup, first), ErrInvalidOrExpired)
	}
	assert.NoError(t, r.Consume("a@x.com", PurposeSignup, second))
}

func TestExpiredCodeFails(t *testing.T) {
	r := NewRegistry(time.Minute)
	code, _, err := r.Issue("a@x.com", PurposeReset)
	require.NoError(t, err)

	// Move the clock past the TTL.
	r.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.ErrorIs(t, r.Consume("a@x.com", PurposeReset, code), ErrInvalidOrExpired)
}

func TestConcurrentConsumeSucceedsOnce(t *testing.T) {
	r := NewRegistry(5 * time.Minute)
	code, _, err := r.Issue("a@x.com", PurposeSignup)
	require.NoError(t, err)

	const n = 32
	var ok int64
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if r.Consume("a@x.com", PurposeSignup, code) == nil {
				atomic.AddInt64(&ok, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), ok, "exactly one concurrent consume may succeed")
}

func TestGenCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, ch := range code {
			require.True(t, ch >= '0' && ch <= '9')
		}
	}
}
