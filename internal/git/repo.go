// Package git provides read-only access to the local repository for appcommit.
// This file wraps repository discovery and object lookups over go-git.
package git

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
)

// githubRemoteURL matches the ssh and https forms of a GitHub remote URL.
// Captures are owner and name; the name capture may carry a trailing ".git"
// or "/" that is stripped afterwards.
var githubRemoteURL = regexp.MustCompile(`^(?:git@github\.com:|https://github\.com/)([^/]+)/(.+)$`)

// Repository is a read-only view over the local repository. It exposes
// exactly what the commit pipeline consumes: the head state, the staged
// change set and blob lookups by content id.
type Repository struct {
	repo *gogit.Repository
}

// Open opens the repository containing path, searching parent directories
// for the .git directory the way the git CLI does.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotGitRepo, path)
	}
	return &Repository{repo: repo}, nil
}

// NewRepository wraps an already-open go-git repository. Used by tests that
// build repositories in memory.
func NewRepository(repo *gogit.Repository) *Repository {
	return &Repository{repo: repo}
}

// Head returns the current branch name and the head commit id.
// Fails when the repository has no commits yet or HEAD is detached.
func (r *Repository) Head() (string, plumbing.Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", plumbing.ZeroHash, fmt.Errorf("%w: %w", apperrors.ErrNoBranch, err)
	}
	if !ref.Name().IsBranch() {
		return "", plumbing.ZeroHash, fmt.Errorf("%w: HEAD is detached at %s", apperrors.ErrNoBranch, ref.Hash())
	}
	return ref.Name().Short(), ref.Hash(), nil
}

// GitHubRemote parses the origin remote URL into its owner and repository
// name. Both the ssh form (git@github.com:owner/name.git) and the https
// form are accepted.
func (r *Repository) GitHubRemote() (string, string, error) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return "", "", fmt.Errorf("%w: no origin remote", apperrors.ErrNoGitHubRemote)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", fmt.Errorf("%w: origin remote has no url", apperrors.ErrNoGitHubRemote)
	}

	matches := githubRemoteURL.FindStringSubmatch(urls[0])
	if matches == nil {
		return "", "", fmt.Errorf("%w: %q is not a github url", apperrors.ErrNoGitHubRemote, urls[0])
	}

	owner := matches[1]
	name := strings.TrimSuffix(strings.TrimSuffix(matches[2], "/"), ".git")
	if name == "" {
		return "", "", fmt.Errorf("%w: %q is not a github url", apperrors.ErrNoGitHubRemote, urls[0])
	}

	return owner, name, nil
}

// ReadBlob returns the raw bytes of the blob with the given content id.
// Content must always be read by id rather than by filesystem path: the
// working tree may have been edited again after staging, and a path-based
// read would commit the wrong bytes.
func (r *Repository) ReadBlob(id plumbing.Hash) ([]byte, error) {
	blob, err := r.repo.BlobObject(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrObjectNotFound, id)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, apperrors.Wrapf(err, "opening blob %s", id)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.Wrapf(err, "reading blob %s", id)
	}
	return data, nil
}
