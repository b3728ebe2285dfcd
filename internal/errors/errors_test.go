package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
)

func TestSentinelErrors_Existence(t *testing.T) {
	// Verify all sentinel errors exist and are non-nil
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotGitRepo", apperrors.ErrNotGitRepo},
		{"ErrNoChanges", apperrors.ErrNoChanges},
		{"ErrIndexConflicts", apperrors.ErrIndexConflicts},
		{"ErrNoBranch", apperrors.ErrNoBranch},
		{"ErrNoGitHubRemote", apperrors.ErrNoGitHubRemote},
		{"ErrUnsupportedChange", apperrors.ErrUnsupportedChange},
		{"ErrUnsupportedFileMode", apperrors.ErrUnsupportedFileMode},
		{"ErrMissingOriginalPath", apperrors.ErrMissingOriginalPath},
		{"ErrObjectNotFound", apperrors.ErrObjectNotFound},
		{"ErrNotABlob", apperrors.ErrNotABlob},
		{"ErrEmptyFileChanges", apperrors.ErrEmptyFileChanges},
		{"ErrDuplicatePath", apperrors.ErrDuplicatePath},
		{"ErrUnexpectedStatus", apperrors.ErrUnexpectedStatus},
		{"ErrResponseDecode", apperrors.ErrResponseDecode},
		{"ErrRemoteRejected", apperrors.ErrRemoteRejected},
		{"ErrConfigMissing", apperrors.ErrConfigMissing},
		{"ErrConfigInvalid", apperrors.ErrConfigInvalid},
		{"ErrInvalidPrivateKey", apperrors.ErrInvalidPrivateKey},
		{"ErrTokenExchange", apperrors.ErrTokenExchange},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.err, "%s should not be nil", tc.name)
			assert.NotEmpty(t, tc.err.Error(), "%s should have a message", tc.name)
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, apperrors.Wrap(nil, "context"))
	})

	t.Run("wrapped error preserves chain", func(t *testing.T) {
		err := apperrors.Wrap(apperrors.ErrNoChanges, "reading staged changes")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNoChanges)
		assert.Equal(t, "reading staged changes: no changes to commit", err.Error())
	})
}

func TestWrapf(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, apperrors.Wrapf(nil, "path %s", "a.txt"))
	})

	t.Run("formats context and preserves chain", func(t *testing.T) {
		err := apperrors.Wrapf(apperrors.ErrObjectNotFound, "reading blob for %s", "a.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrObjectNotFound)
		assert.Contains(t, err.Error(), "reading blob for a.txt")
	})

	t.Run("does not match unrelated sentinel", func(t *testing.T) {
		err := apperrors.Wrapf(apperrors.ErrObjectNotFound, "reading blob for %s", "a.txt")
		assert.False(t, stderrors.Is(err, apperrors.ErrNotABlob))
	})
}
