// Package github provides the authenticated GitHub API client for appcommit.
// This file defines the Git database REST endpoints (blobs, trees, commits,
// references) and their request/response shapes.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
)

// FileMode is a tree-entry file mode accepted by the create-a-tree endpoint.
// https://docs.github.com/en/rest/git/trees#create-a-tree
type FileMode string

// File mode constants.
const (
	ModeFile       FileMode = "100644"
	ModeExecutable FileMode = "100755"
	ModeSubmodule  FileMode = "160000"
	ModeSymlink    FileMode = "120000"
	ModeSubtree    FileMode = "040000"
)

// NodeType is a tree-entry object type accepted by the create-a-tree endpoint.
type NodeType string

// Node type constants.
const (
	NodeBlob   NodeType = "blob"
	NodeCommit NodeType = "commit"
	NodeTree   NodeType = "tree"
)

// The create-a-tree endpoint requires a valid mode on every entry, deletions
// included, even though a deleted file has no mode. Any accepted value gets
// the same response, so a regular-blob placeholder is sent consistently.
// The same applies to the node type, which keeps deletions uniform with the
// other entries instead of making the field optional.
const (
	deletedFileMode = ModeFile
	deletedNodeType = NodeBlob
)

// BlobEncoding is the encoding of a create-blob payload.
type BlobEncoding string

// Blob encoding constants.
const (
	EncodingUTF8   BlobEncoding = "utf-8"
	EncodingBase64 BlobEncoding = "base64"
)

// CreateBlobRequest is the create-a-blob request body.
type CreateBlobRequest struct {
	Content  string       `json:"content"`
	Encoding BlobEncoding `json:"encoding"`
}

// CreateBlobResponse is the create-a-blob response body.
type CreateBlobResponse struct {
	SHA string `json:"sha"`
	URL string `json:"url"`
}

// treeNodeVariant selects which of content and sha a TreeNode serializes.
type treeNodeVariant int

const (
	// nodeWithContent embeds literal text content.
	nodeWithContent treeNodeVariant = iota
	// nodeWithSHA references an existing object by id.
	nodeWithSHA
	// nodeDeletion serializes sha as JSON null, which the API reads as
	// "remove this path from the tree".
	nodeDeletion
)

// TreeNode is one entry of a create-a-tree request. Exactly one of content
// and sha is ever serialized; the variant is fixed at construction so the
// two fields can never be set (or empty) together.
type TreeNode struct {
	path    string
	mode    FileMode
	nType   NodeType
	variant treeNodeVariant
	value   string
}

// NewTreeNodeContent builds a tree entry carrying literal text content.
func NewTreeNodeContent(path string, mode FileMode, nType NodeType, content string) TreeNode {
	return TreeNode{path: path, mode: mode, nType: nType, variant: nodeWithContent, value: content}
}

// NewTreeNodeSHA builds a tree entry referencing an existing object id.
func NewTreeNodeSHA(path string, mode FileMode, nType NodeType, sha string) TreeNode {
	return TreeNode{path: path, mode: mode, nType: nType, variant: nodeWithSHA, value: sha}
}

// NewTreeNodeDeletion builds a tree entry that deletes the given path. Mode
// and type carry the fixed placeholder values the endpoint demands.
func NewTreeNodeDeletion(path string) TreeNode {
	return TreeNode{path: path, mode: deletedFileMode, nType: deletedNodeType, variant: nodeDeletion}
}

// Path returns the entry's path.
func (n TreeNode) Path() string { return n.path }

// Mode returns the entry's file mode.
func (n TreeNode) Mode() FileMode { return n.mode }

// Type returns the entry's node type.
func (n TreeNode) Type() NodeType { return n.nType }

// Content returns the literal content and whether this is a content entry.
func (n TreeNode) Content() (string, bool) {
	return n.value, n.variant == nodeWithContent
}

// SHA returns the referenced object id and whether this is a sha entry.
func (n TreeNode) SHA() (string, bool) {
	return n.value, n.variant == nodeWithSHA
}

// IsDeletion reports whether this entry deletes its path.
func (n TreeNode) IsDeletion() bool { return n.variant == nodeDeletion }

// MarshalJSON serializes the active variant: content entries carry a
// "content" field, sha entries a "sha" string, deletions a literal
// "sha": null.
func (n TreeNode) MarshalJSON() ([]byte, error) {
	switch n.variant {
	case nodeWithContent:
		return json.Marshal(struct {
			Path    string   `json:"path"`
			Mode    FileMode `json:"mode"`
			Type    NodeType `json:"type"`
			Content string   `json:"content"`
		}{n.path, n.mode, n.nType, n.value})
	case nodeWithSHA:
		return json.Marshal(struct {
			Path string   `json:"path"`
			Mode FileMode `json:"mode"`
			Type NodeType `json:"type"`
			SHA  string   `json:"sha"`
		}{n.path, n.mode, n.nType, n.value})
	case nodeDeletion:
		return json.Marshal(struct {
			Path string   `json:"path"`
			Mode FileMode `json:"mode"`
			Type NodeType `json:"type"`
			SHA  *string  `json:"sha"`
		}{n.path, n.mode, n.nType, nil})
	}
	return nil, fmt.Errorf("tree node for %q has unknown variant %d", n.path, n.variant)
}

// CreateTreeRequest is the create-a-tree request body. BaseTree references
// the commit whose tree the new tree extends.
type CreateTreeRequest struct {
	BaseTree string     `json:"base_tree"`
	Tree     []TreeNode `json:"tree"`
}

// CreateTreeResponse is the create-a-tree response body.
type CreateTreeResponse struct {
	SHA       string `json:"sha"`
	URL       string `json:"url"`
	Truncated bool   `json:"truncated"`
}

// CreateCommitRequest is the create-a-commit request body.
type CreateCommitRequest struct {
	Message string   `json:"message"`
	Parents []string `json:"parents"`
	Tree    string   `json:"tree"`
}

// CreateCommitResponse is the create-a-commit response body.
type CreateCommitResponse struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
}

// RefObject is the object a reference points at.
type RefObject struct {
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// GetRefResponse is the get-a-reference response body.
type GetRefResponse struct {
	Ref    string    `json:"ref"`
	Object RefObject `json:"object"`
}

// CreateRefRequest is the create-a-reference request body. Ref is fully
// qualified, e.g. "refs/heads/main".
type CreateRefRequest struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// UpdateRefRequest is the update-a-reference request body. Force permits a
// non-fast-forward update, discarding remote history.
type UpdateRefRequest struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

// CreateBlob creates a blob object and returns its id.
// https://docs.github.com/en/rest/git/blobs#create-a-blob
func (c *Client) CreateBlob(ctx context.Context, req *CreateBlobRequest) (*CreateBlobResponse, error) {
	var resp CreateBlobResponse
	if err := c.doJSON(ctx, http.MethodPost, c.repoURL("/git/blobs"), http.StatusCreated, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateTree creates a tree object on top of the request's base tree.
// https://docs.github.com/en/rest/git/trees#create-a-tree
func (c *Client) CreateTree(ctx context.Context, req *CreateTreeRequest) (*CreateTreeResponse, error) {
	var resp CreateTreeResponse
	if err := c.doJSON(ctx, http.MethodPost, c.repoURL("/git/trees"), http.StatusCreated, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCommit creates a commit object pointing at the given tree.
// https://docs.github.com/en/rest/git/commits#create-a-commit
func (c *Client) CreateCommit(ctx context.Context, req *CreateCommitRequest) (*CreateCommitResponse, error) {
	var resp CreateCommitResponse
	if err := c.doJSON(ctx, http.MethodPost, c.repoURL("/git/commits"), http.StatusCreated, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRef looks up the branch reference. A 404 is a normal outcome of this
// protocol, reported as found=false rather than as an error; every other
// non-200 status is a hard failure.
// https://docs.github.com/en/rest/git/refs#get-a-reference
func (c *Client) GetRef(ctx context.Context, branch string) (*GetRefResponse, bool, error) {
	url := c.repoURL("/git/refs/heads/%s", branch)

	status, body, err := c.send(ctx, http.MethodGet, url, true, nil)
	if err != nil {
		return nil, false, err
	}

	switch status {
	case http.StatusOK:
		var resp GetRefResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, false, fmt.Errorf("%w: GET %s returned %d with body: %s",
				apperrors.ErrResponseDecode, url, status, string(body))
		}
		return &resp, true, nil
	case http.StatusNotFound:
		return nil, false, nil
	default:
		return nil, false, statusError(http.MethodGet, url, status, body)
	}
}

// CreateRef creates the branch reference.
// https://docs.github.com/en/rest/git/refs#create-a-reference
func (c *Client) CreateRef(ctx context.Context, req *CreateRefRequest) error {
	return c.doJSON(ctx, http.MethodPost, c.repoURL("/git/refs"), http.StatusCreated, req, nil)
}

// UpdateRef points the branch reference at a new commit.
// https://docs.github.com/en/rest/git/refs#update-a-reference
func (c *Client) UpdateRef(ctx context.Context, branch string, req *UpdateRefRequest) error {
	return c.doJSON(ctx, http.MethodPatch, c.repoURL("/git/refs/heads/%s", branch), http.StatusOK, req, nil)
}
