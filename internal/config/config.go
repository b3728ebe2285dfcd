// Package config gathers and validates the configuration for one appcommit
// run: CLI flags, repository-derived fields and app credentials from the
// environment.
package config

import "crypto/rsa"

// Strategy selects how the commit payload is assembled and submitted.
type Strategy string

// Strategy constants.
const (
	// StrategyTree is the multi-object REST sequence: blobs, tree, commit,
	// then a branch reference update. Text content travels inline.
	StrategyTree Strategy = "tree"
	// StrategyMutation is the single createCommitOnBranch GraphQL call,
	// applied atomically server-side with everything base64-encoded.
	StrategyMutation Strategy = "mutation"
)

// DefaultStrategy is used when no strategy flag is given.
const DefaultStrategy = StrategyTree

// Config is the complete configuration of one run.
type Config struct {
	// CommitMessage is the message of the commit to create.
	CommitMessage string
	// ForcePush permits a non-fast-forward branch update.
	ForcePush bool
	// Strategy selects the payload assembly strategy.
	Strategy Strategy

	// RepoOwner is the GitHub repository owner, parsed from the origin
	// remote.
	RepoOwner string
	// RepoName is the GitHub repository name, parsed from the origin
	// remote.
	RepoName string
	// BranchName is the current local branch.
	BranchName string
	// HeadCommitID is the local head commit id.
	HeadCommitID string

	// AppID identifies the GitHub App.
	AppID int64
	// InstallationID identifies the app's installation on the repository.
	InstallationID int64
	// PrivateKey signs the app assertion.
	PrivateKey *rsa.PrivateKey
}
