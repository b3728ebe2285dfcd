package github

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mockClock is a Clock implementation returning a settable fixed time.
type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time {
	return m.now
}

// generateTestKey creates a throwaway RSA key for signing assertions in tests.
func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

// staticTokenSource satisfies TokenSource with a fixed token value.
type staticTokenSource struct {
	token string
	err   error
}

func (s *staticTokenSource) Token(_ context.Context) (string, error) {
	return s.token, s.err
}
