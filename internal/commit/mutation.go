// Package commit translates staged path changes into GitHub API commit
// payloads. This file implements the single-mutation GraphQL strategy:
// the whole commit travels as one createCommitOnBranch call, which the
// hosting service applies atomically server-side.
package commit

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
	"github.com/mrz1836/appcommit/internal/git"
	"github.com/mrz1836/appcommit/internal/github"
)

// MutationStrategy collects all additions and deletions into one
// createCommitOnBranch input. Simpler and atomic, at the cost of pushing
// every file over the wire as base64, text included.
type MutationStrategy struct {
	client GitDataClient
	blobs  BlobReader
	target Target
	logger zerolog.Logger
}

// NewMutationStrategy creates the GraphQL payload strategy.
func NewMutationStrategy(client GitDataClient, blobs BlobReader, target Target, logger zerolog.Logger) *MutationStrategy {
	return &MutationStrategy{client: client, blobs: blobs, target: target, logger: logger}
}

// Commit validates and submits the mutation. The expected head oid guards
// against the remote branch having moved; the service rejects the mutation
// rather than committing onto stale history. The returned result carries no
// commit id: the ref update already happened server-side.
func (s *MutationStrategy) Commit(ctx context.Context, changes []git.PathChange) (Result, error) {
	fileChanges, err := s.assembleFileChanges(changes)
	if err != nil {
		return Result{}, err
	}

	if err := validateFileChanges(fileChanges); err != nil {
		return Result{}, err
	}

	headline, body := splitMessage(s.target.Message)

	s.logger.Debug().
		Int("additions", len(fileChanges.Additions)).
		Int("deletions", len(fileChanges.Deletions)).
		Str("branch", s.target.Branch).
		Msg("submitting commit mutation")

	url, err := s.client.CreateCommitOnBranch(ctx, &github.CreateCommitOnBranchInput{
		Branch: github.CommittableBranch{
			RepositoryNameWithOwner: s.target.Owner + "/" + s.target.Name,
			BranchName:              s.target.Branch,
		},
		ExpectedHeadOid: s.target.HeadOID,
		FileChanges:     fileChanges,
		Message: github.CommitMessage{
			Headline: headline,
			Body:     body,
		},
	})
	if err != nil {
		return Result{}, err
	}

	return Result{URL: url}, nil
}

// assembleFileChanges expands the change set into addition and deletion
// lists. All content is resolved locally; no network calls happen here.
func (s *MutationStrategy) assembleFileChanges(changes []git.PathChange) (*github.FileChanges, error) {
	fileChanges := &github.FileChanges{
		Additions: []github.FileAddition{},
		Deletions: []github.FileDeletion{},
	}

	for _, change := range changes {
		for _, action := range ActionsFor(change.Kind) {
			switch action {
			case ActionAddPath:
				content, err := ResolveContent(s.blobs, change)
				if err != nil {
					return nil, err
				}
				fileChanges.Additions = append(fileChanges.Additions, github.FileAddition{
					Path:     change.Path,
					Contents: content.EncodedContents(),
				})

			case ActionDeletePath, ActionDeleteOriginalPath:
				path, err := deletionPath(action, change)
				if err != nil {
					return nil, err
				}
				fileChanges.Deletions = append(fileChanges.Deletions, github.FileDeletion{Path: path})

			case ActionNop:

			case ActionUnsupported:
				return nil, fmt.Errorf("%w: %q has kind %s", apperrors.ErrUnsupportedChange, change.Path, change.Kind)
			}
		}
	}

	return fileChanges, nil
}

// validateFileChanges rejects batches the mutation cannot express
// unambiguously: an empty batch, a path repeated within either list, or a
// path present in both lists at once. All checks run before any network
// call.
func validateFileChanges(fc *github.FileChanges) error {
	if len(fc.Additions) == 0 && len(fc.Deletions) == 0 {
		return apperrors.ErrEmptyFileChanges
	}

	added := make(map[string]struct{}, len(fc.Additions))
	for _, addition := range fc.Additions {
		if _, dup := added[addition.Path]; dup {
			return fmt.Errorf("%w: %q appears twice in additions", apperrors.ErrDuplicatePath, addition.Path)
		}
		added[addition.Path] = struct{}{}
	}

	deleted := make(map[string]struct{}, len(fc.Deletions))
	for _, deletion := range fc.Deletions {
		if _, dup := deleted[deletion.Path]; dup {
			return fmt.Errorf("%w: %q appears twice in deletions", apperrors.ErrDuplicatePath, deletion.Path)
		}
		if _, both := added[deletion.Path]; both {
			return fmt.Errorf("%w: %q is both added and deleted", apperrors.ErrDuplicatePath, deletion.Path)
		}
		deleted[deletion.Path] = struct{}{}
	}

	return nil
}

// splitMessage splits a commit message into the mutation's headline and
// optional body: the headline is the first line, the body everything after
// it with surrounding blank lines trimmed.
func splitMessage(message string) (string, *string) {
	headline, rest, found := strings.Cut(message, "\n")
	if !found {
		return headline, nil
	}

	body := strings.Trim(rest, "\n")
	if body == "" {
		return headline, nil
	}
	return headline, &body
}
