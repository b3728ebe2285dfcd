// Package git provides read-only access to the local repository for appcommit.
// This file defines the types describing staged path-level changes.
package git

import (
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// ChangeKind classifies how a path differs between the last commit and the
// staged index.
type ChangeKind string

// Change kind constants. Only a subset is produced by StagedChanges, but the
// full set is representable so downstream action mapping stays total.
const (
	KindAdded       ChangeKind = "added"
	KindModified    ChangeKind = "modified"
	KindDeleted     ChangeKind = "deleted"
	KindRenamed     ChangeKind = "renamed"
	KindCopied      ChangeKind = "copied"
	KindTypeChanged ChangeKind = "typechanged"
	KindUnmodified  ChangeKind = "unmodified"
	KindIgnored     ChangeKind = "ignored"
	KindUntracked   ChangeKind = "untracked"
	KindUnreadable  ChangeKind = "unreadable"
	KindConflicted  ChangeKind = "conflicted"
)

// PathChange represents one changed path in the staged index relative to the
// last commit. Instances are created fresh per StagedChanges call and are
// never mutated afterwards.
type PathChange struct {
	// Kind is the classification of the change.
	Kind ChangeKind
	// Mode is the staged entry's file mode. For deletions it is the mode
	// the entry had in the last commit.
	Mode filemode.FileMode
	// ContentID is the content-addressed id of the staged object.
	ContentID plumbing.Hash
	// ObjectKind is the staged object's kind (blob, tree or commit),
	// derived from the index entry at stage zero.
	ObjectKind plumbing.ObjectType
	// Path is the current path of the entry.
	Path string
	// OriginalPath is the pre-rename path. It equals Path for everything
	// except renames.
	OriginalPath string
}

// objectKindForMode derives the object kind stored at an entry from its file
// mode. Submodules point at commits, directories at trees, everything else
// (regular, executable, symlink) at blobs.
func objectKindForMode(mode filemode.FileMode) plumbing.ObjectType {
	switch mode {
	case filemode.Submodule:
		return plumbing.CommitObject
	case filemode.Dir:
		return plumbing.TreeObject
	default:
		return plumbing.BlobObject
	}
}

// modeClass groups file modes into the categories whose transitions count as
// a type change rather than a modification. A regular file gaining the
// executable bit stays in the blob class and is reported as modified.
func modeClass(mode filemode.FileMode) int {
	switch mode {
	case filemode.Symlink:
		return 1
	case filemode.Submodule:
		return 2
	case filemode.Dir:
		return 3
	default:
		return 0
	}
}
