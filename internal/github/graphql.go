// Package github provides the authenticated GitHub API client for appcommit.
// This file implements the createCommitOnBranch GraphQL mutation, the
// single-call alternative to the blob/tree/commit/ref REST sequence.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
)

// createCommitOnBranchMutation asks for the created commit's URL back.
const createCommitOnBranchMutation = `
mutation ($input: CreateCommitOnBranchInput!) {
  createCommitOnBranch(input: $input) {
    commit {
      url
    }
  }
}
`

// FileAddition is one file to create or update in the commit. Contents are
// always base64-encoded on this path, text included.
// https://docs.github.com/en/graphql/reference/input-objects#fileaddition
type FileAddition struct {
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

// FileDeletion is one path to delete in the commit.
// https://docs.github.com/en/graphql/reference/input-objects#filedeletion
type FileDeletion struct {
	Path string `json:"path"`
}

// FileChanges groups the additions and deletions of one commit.
// https://docs.github.com/en/graphql/reference/input-objects#filechanges
type FileChanges struct {
	Additions []FileAddition `json:"additions"`
	Deletions []FileDeletion `json:"deletions"`
}

// CommittableBranch identifies the target branch by repository name-with-owner
// and branch name.
// https://docs.github.com/en/graphql/reference/input-objects#committablebranch
type CommittableBranch struct {
	RepositoryNameWithOwner string `json:"repositoryNameWithOwner"`
	BranchName              string `json:"branchName"`
}

// CommitMessage carries the commit message split into headline and body.
// https://docs.github.com/en/graphql/reference/input-objects#commitmessage
type CommitMessage struct {
	Headline string  `json:"headline"`
	Body     *string `json:"body,omitempty"`
}

// CreateCommitOnBranchInput is the mutation input. ExpectedHeadOid is an
// optimistic-concurrency guard: the mutation fails if the remote branch has
// moved past it.
// https://docs.github.com/en/graphql/reference/input-objects#createcommitonbranchinput
type CreateCommitOnBranchInput struct {
	Branch          CommittableBranch `json:"branch"`
	ExpectedHeadOid string            `json:"expectedHeadOid"`
	FileChanges     *FileChanges      `json:"fileChanges,omitempty"`
	Message         CommitMessage     `json:"message"`
}

// graphqlRequest is the envelope every GraphQL call is wrapped in.
type graphqlRequest struct {
	Query     string `json:"query"`
	Variables any    `json:"variables"`
}

// createCommitOnBranchResponse mirrors the slice of the response this client
// consumes: the commit URL on success, the errors array otherwise.
type createCommitOnBranchResponse struct {
	Data struct {
		CreateCommitOnBranch struct {
			Commit struct {
				URL string `json:"url"`
			} `json:"commit"`
		} `json:"createCommitOnBranch"`
	} `json:"data"`
	Errors []json.RawMessage `json:"errors"`
}

// CreateCommitOnBranch submits the whole commit as one mutation and returns
// the created commit's URL. The hosting service performs the tree, commit
// and ref update atomically server-side. A structured errors array in the
// response is a remote-side rejection and fails the run.
func (c *Client) CreateCommitOnBranch(ctx context.Context, input *CreateCommitOnBranchInput) (string, error) {
	payload := graphqlRequest{
		Query: createCommitOnBranchMutation,
		Variables: struct {
			Input *CreateCommitOnBranchInput `json:"input"`
		}{input},
	}

	status, body, err := c.send(ctx, http.MethodPost, c.graphqlURL, false, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", statusError(http.MethodPost, c.graphqlURL, status, body)
	}

	var resp createCommitOnBranchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: POST %s returned %d with body: %s",
			apperrors.ErrResponseDecode, c.graphqlURL, status, string(body))
	}

	if len(resp.Errors) > 0 {
		serialized, marshalErr := json.Marshal(resp.Errors)
		if marshalErr != nil {
			serialized = body
		}
		return "", fmt.Errorf("%w: %s", apperrors.ErrRemoteRejected, string(serialized))
	}

	url := resp.Data.CreateCommitOnBranch.Commit.URL
	if url == "" {
		return "", fmt.Errorf("%w: response carried no commit url: %s", apperrors.ErrResponseDecode, string(body))
	}
	return url, nil
}
