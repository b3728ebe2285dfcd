package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
	"github.com/mrz1836/appcommit/internal/git"
)

// newConfiguredRepo builds an in-memory repository with one commit on master
// and a GitHub origin remote, the shape Load expects to find on disk.
func newConfiguredRepo(t *testing.T) *git.Repository {
	t.Helper()

	repo, err := gogit.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(worktree.Filesystem, "README.md", []byte("hello\n"), 0o644))
	_, err = worktree.Add("README.md")
	require.NoError(t, err)

	_, err = worktree.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "author@example.com",
			When:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	})
	require.NoError(t, err)

	return git.NewRepository(repo)
}

// testPrivateKeyPEM renders a throwaway RSA key in the PKCS#1 PEM form the
// GitHub App settings page hands out.
func testPrivateKeyPEM(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("APPCOMMIT_GITHUB_APP_ID", "1234")
	t.Setenv("APPCOMMIT_GITHUB_APP_INSTALLATION_ID", "5678")
	t.Setenv("APPCOMMIT_GITHUB_APP_PRIVATE_KEY", testPrivateKeyPEM(t))
}

func TestLoad(t *testing.T) {
	setCredentials(t)
	repo := newConfiguredRepo(t)

	cfg, err := Load(Flags{Message: "fix widget", Force: true}, repo)
	require.NoError(t, err)

	assert.Equal(t, "fix widget", cfg.CommitMessage)
	assert.True(t, cfg.ForcePush)
	assert.Equal(t, DefaultStrategy, cfg.Strategy)
	assert.Equal(t, "acme", cfg.RepoOwner)
	assert.Equal(t, "widgets", cfg.RepoName)
	assert.Equal(t, "master", cfg.BranchName)
	assert.Len(t, cfg.HeadCommitID, 40)
	assert.Equal(t, int64(1234), cfg.AppID)
	assert.Equal(t, int64(5678), cfg.InstallationID)
	require.NotNil(t, cfg.PrivateKey)
}

func TestLoad_ExplicitStrategy(t *testing.T) {
	setCredentials(t)
	repo := newConfiguredRepo(t)

	cfg, err := Load(Flags{Message: "fix widget", Strategy: "mutation"}, repo)
	require.NoError(t, err)
	assert.Equal(t, StrategyMutation, cfg.Strategy)
}

func TestLoad_UnknownStrategy(t *testing.T) {
	setCredentials(t)
	repo := newConfiguredRepo(t)

	_, err := Load(Flags{Message: "fix widget", Strategy: "rebase"}, repo)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestLoad_MissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantVar string
	}{
		{
			name:    "app id",
			unset:   "APPCOMMIT_GITHUB_APP_ID",
			wantVar: "APPCOMMIT_GITHUB_APP_ID",
		},
		{
			name:    "installation id",
			unset:   "APPCOMMIT_GITHUB_APP_INSTALLATION_ID",
			wantVar: "APPCOMMIT_GITHUB_APP_INSTALLATION_ID",
		},
		{
			name:    "private key",
			unset:   "APPCOMMIT_GITHUB_APP_PRIVATE_KEY",
			wantVar: "APPCOMMIT_GITHUB_APP_PRIVATE_KEY",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setCredentials(t)
			t.Setenv(tc.unset, "")
			repo := newConfiguredRepo(t)

			_, err := Load(Flags{Message: "fix widget"}, repo)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConfigMissing)
			assert.Contains(t, err.Error(), tc.wantVar)
		})
	}
}

func TestLoad_MalformedPrivateKey(t *testing.T) {
	setCredentials(t)
	t.Setenv("APPCOMMIT_GITHUB_APP_PRIVATE_KEY", "not a pem block")
	repo := newConfiguredRepo(t)

	_, err := Load(Flags{Message: "fix widget"}, repo)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPrivateKey)
	assert.Contains(t, err.Error(), "APPCOMMIT_GITHUB_APP_PRIVATE_KEY")
}

func TestLoad_NoOriginRemote(t *testing.T) {
	setCredentials(t)

	repo, err := gogit.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)

	worktree, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, util.WriteFile(worktree.Filesystem, "README.md", []byte("hello\n"), 0o644))
	_, err = worktree.Add("README.md")
	require.NoError(t, err)
	_, err = worktree.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "author@example.com",
			When:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	_, err = Load(Flags{Message: "fix widget"}, git.NewRepository(repo))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoGitHubRemote)
}
