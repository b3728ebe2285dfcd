// Package errors provides centralized error handling for appcommit.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrNotGitRepo indicates the working directory is not inside a Git
	// repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrNoChanges indicates the staged index contains no changes relative
	// to the last commit, so there is nothing to translate into a commit.
	ErrNoChanges = errors.New("no changes to commit")

	// ErrIndexConflicts indicates the index contains unresolved merge
	// conflicts (entries at a non-zero merge stage). Conflict resolution is
	// out of scope and the run must abort rather than pick a side.
	ErrIndexConflicts = errors.New("index has unresolved conflicts")

	// ErrNoBranch indicates HEAD does not point at a named branch
	// (detached HEAD or an unborn repository).
	ErrNoBranch = errors.New("repository has no current branch")

	// ErrNoGitHubRemote indicates the origin remote is missing or its URL
	// does not identify a GitHub repository.
	ErrNoGitHubRemote = errors.New("no github remote")

	// ErrUnsupportedChange indicates a path change whose kind cannot be
	// expressed as hosting-API actions (unreadable or conflicted entries).
	ErrUnsupportedChange = errors.New("unsupported change kind")

	// ErrUnsupportedFileMode indicates a local file mode with no hosting-API
	// equivalent (for example a group-writable blob).
	ErrUnsupportedFileMode = errors.New("unsupported file mode")

	// ErrMissingOriginalPath indicates a rename entry without an original
	// path. Defaulting to the current path would silently drop the delete
	// half of the rename, so this is a hard failure.
	ErrMissingOriginalPath = errors.New("rename is missing its original path")

	// ErrObjectNotFound indicates a content id could not be resolved in the
	// local object database.
	ErrObjectNotFound = errors.New("object not found")

	// ErrNotABlob indicates an object expected to be a blob resolved to a
	// different object kind.
	ErrNotABlob = errors.New("object is not a blob")

	// ErrEmptyFileChanges indicates a mutation batch with no additions and
	// no deletions.
	ErrEmptyFileChanges = errors.New("file changes are empty")

	// ErrDuplicatePath indicates the same path appears more than once in a
	// mutation batch, or in both the addition and deletion lists.
	ErrDuplicatePath = errors.New("duplicate path in file changes")

	// ErrUnexpectedStatus indicates the hosting API answered with a status
	// code other than the one the call declared as success.
	ErrUnexpectedStatus = errors.New("unexpected http status")

	// ErrResponseDecode indicates a response body could not be parsed as
	// the expected shape.
	ErrResponseDecode = errors.New("response body could not be decoded")

	// ErrRemoteRejected indicates the hosting service returned a structured
	// error list in an otherwise successful GraphQL response.
	ErrRemoteRejected = errors.New("remote rejected the commit")

	// ErrConfigMissing indicates a required configuration value (flag or
	// environment variable) was not provided.
	ErrConfigMissing = errors.New("missing configuration")

	// ErrConfigInvalid indicates a configuration value was provided but
	// could not be parsed or validated.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrInvalidPrivateKey indicates the application private key is not
	// valid PEM-encoded RSA key data.
	ErrInvalidPrivateKey = errors.New("invalid rsa private key")

	// ErrTokenExchange indicates the installation token exchange failed.
	ErrTokenExchange = errors.New("token exchange failed")
)
