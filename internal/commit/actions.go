// Package commit translates staged path changes into GitHub API commit
// payloads. This file maps change kinds onto the abstract commit actions the
// payload assemblers consume.
package commit

import (
	"fmt"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
	"github.com/mrz1836/appcommit/internal/git"
)

// Action is one abstract step a path change contributes to a commit.
type Action int

// Action constants.
const (
	// ActionAddPath writes the change's staged content at its path.
	ActionAddPath Action = iota
	// ActionDeleteOriginalPath removes the change's pre-rename path.
	ActionDeleteOriginalPath
	// ActionDeletePath removes the change's path.
	ActionDeletePath
	// ActionNop contributes nothing to the commit.
	ActionNop
	// ActionUnsupported aborts the whole run.
	ActionUnsupported
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionAddPath:
		return "add_path"
	case ActionDeleteOriginalPath:
		return "delete_original_path"
	case ActionDeletePath:
		return "delete_path"
	case ActionNop:
		return "nop"
	case ActionUnsupported:
		return "unsupported"
	}
	return "unsupported"
}

// ActionsFor maps a change kind to its fixed action set. The mapping is
// total: every kind resolves, and anything unrecognized resolves to
// ActionUnsupported so it can never slip through silently. A rename is the
// only kind expanding to two actions.
func ActionsFor(kind git.ChangeKind) []Action {
	switch kind {
	case git.KindModified, git.KindAdded, git.KindCopied, git.KindTypeChanged:
		return []Action{ActionAddPath}
	case git.KindRenamed:
		return []Action{ActionAddPath, ActionDeleteOriginalPath}
	case git.KindDeleted:
		return []Action{ActionDeletePath}
	case git.KindUnmodified, git.KindIgnored, git.KindUntracked:
		return []Action{ActionNop}
	case git.KindUnreadable, git.KindConflicted:
		return []Action{ActionUnsupported}
	}
	return []Action{ActionUnsupported}
}

// deletionPath resolves the path a delete action removes. For
// ActionDeleteOriginalPath a missing original path is a defect in the change
// set and fails loudly; defaulting to the current path would silently drop
// the delete half of a rename.
func deletionPath(action Action, change git.PathChange) (string, error) {
	switch action {
	case ActionDeletePath:
		return change.Path, nil
	case ActionDeleteOriginalPath:
		if change.OriginalPath == "" {
			return "", fmt.Errorf("%w: %s entry for %q", apperrors.ErrMissingOriginalPath, change.Kind, change.Path)
		}
		return change.OriginalPath, nil
	default:
		return "", fmt.Errorf("expected a delete action for %q, got %s", change.Path, action)
	}
}
