// Package commit translates staged path changes into GitHub API commit
// payloads. This file implements the multi-object REST strategy:
// blob, tree and commit objects are created individually, then the branch
// reference is moved by the orchestrator.
package commit

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/rs/zerolog"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
	"github.com/mrz1836/appcommit/internal/git"
	"github.com/mrz1836/appcommit/internal/github"
)

// TreeStrategy assembles the commit as a create-tree request on top of the
// prior commit's tree, followed by a create-commit request. Text content is
// embedded inline in the tree payload; binary content is first uploaded as
// a blob and referenced by its returned id.
type TreeStrategy struct {
	client GitDataClient
	blobs  BlobReader
	target Target
	logger zerolog.Logger
}

// NewTreeStrategy creates the REST payload strategy.
func NewTreeStrategy(client GitDataClient, blobs BlobReader, target Target, logger zerolog.Logger) *TreeStrategy {
	return &TreeStrategy{client: client, blobs: blobs, target: target, logger: logger}
}

// Commit assembles and submits the tree and commit objects. The returned
// result carries the commit id so the orchestrator can move the branch
// reference onto it.
func (s *TreeStrategy) Commit(ctx context.Context, changes []git.PathChange) (Result, error) {
	nodes, err := s.assembleTree(ctx, changes)
	if err != nil {
		return Result{}, err
	}
	if len(nodes) == 0 {
		return Result{}, fmt.Errorf("%w: change set produced no tree entries", apperrors.ErrNoChanges)
	}

	s.logger.Debug().Int("entries", len(nodes)).Str("base", s.target.HeadOID).Msg("creating tree")

	tree, err := s.client.CreateTree(ctx, &github.CreateTreeRequest{
		BaseTree: s.target.HeadOID,
		Tree:     nodes,
	})
	if err != nil {
		return Result{}, err
	}

	commit, err := s.client.CreateCommit(ctx, &github.CreateCommitRequest{
		Message: s.target.Message,
		Parents: []string{s.target.HeadOID},
		Tree:    tree.SHA,
	})
	if err != nil {
		return Result{}, err
	}

	return Result{SHA: commit.SHA, URL: commit.HTMLURL}, nil
}

// assembleTree expands every change into tree nodes. Binary additions cost
// one create-blob call each; everything else stays local until the tree is
// submitted.
func (s *TreeStrategy) assembleTree(ctx context.Context, changes []git.PathChange) ([]github.TreeNode, error) {
	nodes := make([]github.TreeNode, 0, len(changes))

	for _, change := range changes {
		for _, action := range ActionsFor(change.Kind) {
			switch action {
			case ActionAddPath:
				node, err := s.additionNode(ctx, change)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)

			case ActionDeletePath, ActionDeleteOriginalPath:
				path, err := deletionPath(action, change)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, github.NewTreeNodeDeletion(path))

			case ActionNop:

			case ActionUnsupported:
				return nil, fmt.Errorf("%w: %q has kind %s", apperrors.ErrUnsupportedChange, change.Path, change.Kind)
			}
		}
	}

	return nodes, nil
}

// additionNode builds the tree entry for one add action. Text content rides
// inline in the tree payload, skipping the blob endpoint entirely; binary
// content is uploaded first and referenced by id.
func (s *TreeStrategy) additionNode(ctx context.Context, change git.PathChange) (github.TreeNode, error) {
	mode, err := hostFileMode(change)
	if err != nil {
		return github.TreeNode{}, err
	}

	nodeType, err := hostNodeType(change)
	if err != nil {
		return github.TreeNode{}, err
	}

	content, err := ResolveContent(s.blobs, change)
	if err != nil {
		return github.TreeNode{}, err
	}

	if encoded, binary := content.Base64(); binary {
		blob, blobErr := s.client.CreateBlob(ctx, &github.CreateBlobRequest{
			Content:  encoded,
			Encoding: github.EncodingBase64,
		})
		if blobErr != nil {
			return github.TreeNode{}, apperrors.Wrapf(blobErr, "uploading blob for %q", change.Path)
		}
		return github.NewTreeNodeSHA(change.Path, mode, nodeType, blob.SHA), nil
	}

	text, _ := content.Text()
	return github.NewTreeNodeContent(change.Path, mode, nodeType, text), nil
}

// hostFileMode maps a local entry mode onto the hosting API's file-mode
// enum. Modes GitHub does not accept (group-writable blobs, unreadable
// entries) fail naming the path and mode.
func hostFileMode(change git.PathChange) (github.FileMode, error) {
	switch change.Mode {
	case filemode.Regular:
		return github.ModeFile, nil
	case filemode.Executable:
		return github.ModeExecutable, nil
	case filemode.Symlink:
		return github.ModeSymlink, nil
	case filemode.Submodule:
		return github.ModeSubmodule, nil
	case filemode.Dir:
		return github.ModeSubtree, nil
	default:
		return "", fmt.Errorf("%w: %q has mode %s", apperrors.ErrUnsupportedFileMode, change.Path, change.Mode)
	}
}

// hostNodeType maps a local object kind onto the hosting API's node-type
// enum.
func hostNodeType(change git.PathChange) (github.NodeType, error) {
	switch change.ObjectKind {
	case plumbing.BlobObject:
		return github.NodeBlob, nil
	case plumbing.CommitObject:
		return github.NodeCommit, nil
	case plumbing.TreeObject:
		return github.NodeTree, nil
	default:
		return "", fmt.Errorf("%w: %q has object kind %s which the api does not accept",
			apperrors.ErrUnsupportedChange, change.Path, change.ObjectKind)
	}
}
