// Package commit translates staged path changes into GitHub API commit
// payloads. This file defines the strategy interface both payload
// assemblers implement and the remote surface they depend on.
package commit

import (
	"context"

	"github.com/mrz1836/appcommit/internal/git"
	"github.com/mrz1836/appcommit/internal/github"
)

// Target identifies where and what to commit.
type Target struct {
	// Owner is the repository owner.
	Owner string
	// Name is the repository name.
	Name string
	// Branch is the branch to commit to.
	Branch string
	// HeadOID is the local head commit id, used as the new commit's parent
	// and as the optimistic-concurrency guard on the mutation path.
	HeadOID string
	// Message is the commit message.
	Message string
	// Force permits a non-fast-forward branch update.
	Force bool
}

// GitDataClient is the slice of the GitHub API the commit pipeline uses.
// Implemented by github.Client; tests substitute a fake.
type GitDataClient interface {
	CreateBlob(ctx context.Context, req *github.CreateBlobRequest) (*github.CreateBlobResponse, error)
	CreateTree(ctx context.Context, req *github.CreateTreeRequest) (*github.CreateTreeResponse, error)
	CreateCommit(ctx context.Context, req *github.CreateCommitRequest) (*github.CreateCommitResponse, error)
	GetRef(ctx context.Context, branch string) (*github.GetRefResponse, bool, error)
	CreateRef(ctx context.Context, req *github.CreateRefRequest) error
	UpdateRef(ctx context.Context, branch string, req *github.UpdateRefRequest) error
	CreateCommitOnBranch(ctx context.Context, input *github.CreateCommitOnBranchInput) (string, error)
}

// Result is the outcome of a submitted commit.
type Result struct {
	// SHA is the created commit id. Empty when the hosting service updated
	// the branch itself (mutation path), in which case no separate ref
	// update is needed.
	SHA string
	// URL points at the created commit.
	URL string
}

// Strategy assembles and submits one commit from a staged change set.
// Two implementations exist: TreeStrategy drives the multi-object REST
// sequence (inline text, blob reuse by id, explicit ref update), while
// MutationStrategy submits a single atomic GraphQL mutation (everything
// base64 over the wire). They trade bandwidth against atomicity and are
// interchangeable behind this interface.
type Strategy interface {
	Commit(ctx context.Context, changes []git.PathChange) (Result, error)
}
