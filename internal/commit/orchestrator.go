// Package commit translates staged path changes into GitHub API commit
// payloads. This file drives the end-to-end flow: read the change set,
// hand it to a strategy, and make sure the branch reference lands on the
// created commit.
package commit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
	"github.com/mrz1836/appcommit/internal/git"
	"github.com/mrz1836/appcommit/internal/github"
)

// ChangeSource produces the staged change set. Implemented by
// git.Repository.
type ChangeSource interface {
	StagedChanges() ([]git.PathChange, error)
}

// Orchestrator runs one commit pipeline invocation. Each stage completes
// before the next begins; the first failure is terminal for the run.
type Orchestrator struct {
	source   ChangeSource
	client   GitDataClient
	strategy Strategy
	target   Target
	logger   zerolog.Logger
}

// NewOrchestrator wires a pipeline run.
func NewOrchestrator(source ChangeSource, client GitDataClient, strategy Strategy, target Target, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		source:   source,
		client:   client,
		strategy: strategy,
		target:   target,
		logger:   logger,
	}
}

// Run executes the pipeline and returns the created commit's URL.
// An empty change set fails before any network call is made.
func (o *Orchestrator) Run(ctx context.Context) (string, error) {
	changes, err := o.source.StagedChanges()
	if err != nil {
		return "", err
	}
	if len(changes) == 0 {
		return "", apperrors.ErrNoChanges
	}

	o.logger.Debug().Int("changes", len(changes)).Str("branch", o.target.Branch).Msg("staged change set read")

	result, err := o.strategy.Commit(ctx, changes)
	if err != nil {
		return "", err
	}

	if result.SHA != "" {
		if err := o.ensureBranch(ctx, result.SHA); err != nil {
			return "", err
		}
	}

	return result.URL, nil
}

// ensureBranch points the target branch at the new commit, creating the
// reference when it does not exist yet. A not-found lookup is the normal
// "new branch" outcome, not a failure.
func (o *Orchestrator) ensureBranch(ctx context.Context, sha string) error {
	_, found, err := o.client.GetRef(ctx, o.target.Branch)
	if err != nil {
		return err
	}

	if !found {
		o.logger.Debug().Str("branch", o.target.Branch).Msg("creating branch reference")
		return o.client.CreateRef(ctx, &github.CreateRefRequest{
			Ref: fmt.Sprintf("refs/heads/%s", o.target.Branch),
			SHA: sha,
		})
	}

	o.logger.Debug().Str("branch", o.target.Branch).Bool("force", o.target.Force).Msg("updating branch reference")
	return o.client.UpdateRef(ctx, o.target.Branch, &github.UpdateRefRequest{
		SHA:   sha,
		Force: o.target.Force,
	})
}
