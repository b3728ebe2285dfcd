package commit

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/mrz1836/appcommit/internal/git"
	"github.com/mrz1836/appcommit/internal/github"
)

// Mock errors for simulating failure scenarios.
var (
	errMockAPIFailure  = errors.New("api failure")
	errMockReadFailure = errors.New("read failure")
)

// fakeBlobReader serves blob contents from an in-memory map.
type fakeBlobReader struct {
	blobs map[plumbing.Hash][]byte
	err   error
}

func newFakeBlobReader() *fakeBlobReader {
	return &fakeBlobReader{blobs: make(map[plumbing.Hash][]byte)}
}

// add stores data and returns its content id, so tests can build PathChange
// entries with realistic hashes.
func (f *fakeBlobReader) add(data []byte) plumbing.Hash {
	hash := plumbing.ComputeHash(plumbing.BlobObject, data)
	f.blobs[hash] = data
	return hash
}

func (f *fakeBlobReader) ReadBlob(id plumbing.Hash) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.blobs[id]
	if !ok {
		return nil, fmt.Errorf("blob %s: not found", id)
	}
	return data, nil
}

// fakeGitDataClient records every call and plays back canned responses.
type fakeGitDataClient struct {
	blobRequests   []*github.CreateBlobRequest
	treeRequests   []*github.CreateTreeRequest
	commitRequests []*github.CreateCommitRequest
	refLookups     []string
	createdRefs    []*github.CreateRefRequest
	updatedRefs    []*github.UpdateRefRequest
	mutations      []*github.CreateCommitOnBranchInput

	blobSHA   string
	treeSHA   string
	commitSHA string
	commitURL string
	refFound  bool

	blobErr     error
	treeErr     error
	commitErr   error
	refErr      error
	mutationErr error
}

func newFakeGitDataClient() *fakeGitDataClient {
	return &fakeGitDataClient{
		blobSHA:   "blob-sha",
		treeSHA:   "tree-sha",
		commitSHA: "commit-sha",
		commitURL: "https://github.com/acme/widgets/commit/abc123",
	}
}

func (f *fakeGitDataClient) CreateBlob(_ context.Context, req *github.CreateBlobRequest) (*github.CreateBlobResponse, error) {
	f.blobRequests = append(f.blobRequests, req)
	if f.blobErr != nil {
		return nil, f.blobErr
	}
	return &github.CreateBlobResponse{SHA: f.blobSHA}, nil
}

func (f *fakeGitDataClient) CreateTree(_ context.Context, req *github.CreateTreeRequest) (*github.CreateTreeResponse, error) {
	f.treeRequests = append(f.treeRequests, req)
	if f.treeErr != nil {
		return nil, f.treeErr
	}
	return &github.CreateTreeResponse{SHA: f.treeSHA}, nil
}

func (f *fakeGitDataClient) CreateCommit(_ context.Context, req *github.CreateCommitRequest) (*github.CreateCommitResponse, error) {
	f.commitRequests = append(f.commitRequests, req)
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	return &github.CreateCommitResponse{SHA: f.commitSHA, HTMLURL: f.commitURL}, nil
}

func (f *fakeGitDataClient) GetRef(_ context.Context, branch string) (*github.GetRefResponse, bool, error) {
	f.refLookups = append(f.refLookups, branch)
	if f.refErr != nil {
		return nil, false, f.refErr
	}
	if !f.refFound {
		return nil, false, nil
	}
	return &github.GetRefResponse{Ref: "refs/heads/" + branch}, true, nil
}

func (f *fakeGitDataClient) CreateRef(_ context.Context, req *github.CreateRefRequest) error {
	f.createdRefs = append(f.createdRefs, req)
	return f.refErr
}

func (f *fakeGitDataClient) UpdateRef(_ context.Context, _ string, req *github.UpdateRefRequest) error {
	f.updatedRefs = append(f.updatedRefs, req)
	return f.refErr
}

func (f *fakeGitDataClient) CreateCommitOnBranch(_ context.Context, input *github.CreateCommitOnBranchInput) (string, error) {
	f.mutations = append(f.mutations, input)
	if f.mutationErr != nil {
		return "", f.mutationErr
	}
	return f.commitURL, nil
}

// networkCalls counts every remote call the fake saw.
func (f *fakeGitDataClient) networkCalls() int {
	return len(f.blobRequests) + len(f.treeRequests) + len(f.commitRequests) +
		len(f.refLookups) + len(f.createdRefs) + len(f.updatedRefs) + len(f.mutations)
}

// fakeChangeSource yields a fixed change set.
type fakeChangeSource struct {
	changes []git.PathChange
	err     error
}

func (f *fakeChangeSource) StagedChanges() ([]git.PathChange, error) {
	return f.changes, f.err
}
