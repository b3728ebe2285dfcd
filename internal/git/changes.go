// Package git provides read-only access to the local repository for appcommit.
// This file computes the staged change set: the diff between the last
// commit's tree and the index at merge stage zero.
package git

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
)

// headEntry is a flattened head-tree entry keyed by its full path.
type headEntry struct {
	mode filemode.FileMode
	hash plumbing.Hash
}

// HasConflicts reports whether the index contains unresolved merge conflicts,
// i.e. entries recorded at a non-zero merge stage.
func (r *Repository) HasConflicts() (bool, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return false, apperrors.Wrap(err, "reading index")
	}

	for _, entry := range idx.Entries {
		if entry.Stage != 0 {
			return true, nil
		}
	}
	return false, nil
}

// StagedChanges diffs the last commit's tree against the staged index and
// returns one PathChange per changed path, sorted by path.
//
// Additions, deletions, modifications and type changes are detected
// directly; a type change (blob to symlink, blob to submodule, ...) is
// reported as its own kind rather than decomposed into delete plus add.
// Exact renames are detected by pairing a deleted path with an added path
// carrying the same blob hash.
//
// Fails with ErrIndexConflicts before producing any changes when the index
// holds unresolved merge conflicts: picking a side silently is never
// acceptable.
func (r *Repository) StagedChanges() ([]PathChange, error) {
	conflicted, err := r.HasConflicts()
	if err != nil {
		return nil, err
	}
	if conflicted {
		return nil, fmt.Errorf("%w: resolve them before committing", apperrors.ErrIndexConflicts)
	}

	headEntries, err := r.headTreeEntries()
	if err != nil {
		return nil, err
	}

	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, apperrors.Wrap(err, "reading index")
	}

	var changes []PathChange
	staged := make(map[string]struct{}, len(idx.Entries))

	for _, entry := range idx.Entries {
		staged[entry.Name] = struct{}{}

		change := PathChange{
			Mode:         entry.Mode,
			ContentID:    entry.Hash,
			ObjectKind:   objectKindForMode(entry.Mode),
			Path:         entry.Name,
			OriginalPath: entry.Name,
		}

		prior, existed := headEntries[entry.Name]
		switch {
		case !existed:
			change.Kind = KindAdded
		case prior.hash == entry.Hash && prior.mode == entry.Mode:
			continue
		case modeClass(prior.mode) != modeClass(entry.Mode):
			change.Kind = KindTypeChanged
		default:
			change.Kind = KindModified
		}

		changes = append(changes, change)
	}

	for path, entry := range headEntries {
		if _, ok := staged[path]; ok {
			continue
		}
		changes = append(changes, PathChange{
			Kind:         KindDeleted,
			Mode:         entry.mode,
			ContentID:    entry.hash,
			ObjectKind:   objectKindForMode(entry.mode),
			Path:         path,
			OriginalPath: path,
		})
	}

	changes = pairRenames(changes)

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// headTreeEntries flattens the head commit's tree into a map of full path to
// mode and hash. Directory entries are skipped; the index only records
// files, symlinks and submodules.
func (r *Repository) headTreeEntries() (map[string]headEntry, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrNoBranch, err)
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, apperrors.Wrapf(err, "resolving head commit %s", ref.Hash())
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, apperrors.Wrapf(err, "resolving tree of commit %s", commit.Hash)
	}

	entries := make(map[string]headEntry)
	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()

	for {
		name, entry, walkErr := walker.Next()
		if walkErr == io.EOF {
			break
		}
		if walkErr != nil {
			return nil, apperrors.Wrap(walkErr, "walking head tree")
		}
		if entry.Mode == filemode.Dir {
			continue
		}
		entries[name] = headEntry{mode: entry.Mode, hash: entry.Hash}
	}

	return entries, nil
}

// pairRenames collapses an added and a deleted entry with the same blob hash
// into a single renamed entry. Only exact (identical content) renames are
// detected; an edited rename surfaces as a separate add and delete, which
// downstream stages handle identically.
func pairRenames(changes []PathChange) []PathChange {
	deletedByHash := make(map[plumbing.Hash]int)
	for i, change := range changes {
		if change.Kind == KindDeleted && change.ObjectKind == plumbing.BlobObject {
			if _, ok := deletedByHash[change.ContentID]; !ok {
				deletedByHash[change.ContentID] = i
			}
		}
	}

	if len(deletedByHash) == 0 {
		return changes
	}

	paired := make(map[int]struct{})
	for i, change := range changes {
		if change.Kind != KindAdded {
			continue
		}
		j, ok := deletedByHash[change.ContentID]
		if !ok {
			continue
		}
		if _, used := paired[j]; used {
			continue
		}
		paired[j] = struct{}{}

		changes[i].Kind = KindRenamed
		changes[i].OriginalPath = changes[j].Path
		delete(deletedByHash, change.ContentID)
	}

	if len(paired) == 0 {
		return changes
	}

	kept := changes[:0]
	for i, change := range changes {
		if _, consumed := paired[i]; consumed {
			continue
		}
		kept = append(kept, change)
	}
	return kept
}
