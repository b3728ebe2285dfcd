// Package commit translates staged path changes into GitHub API commit
// payloads. This file resolves add actions to literal content, read from
// the object database by content id.
package commit

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/go-git/go-git/v5/plumbing"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
	"github.com/mrz1836/appcommit/internal/git"
)

// BlobReader reads blob bytes from the local object database by content id.
// Implemented by git.Repository.
type BlobReader interface {
	ReadBlob(id plumbing.Hash) ([]byte, error)
}

// Content is the resolved content of one staged blob: either valid UTF-8
// text, or arbitrary bytes carried as standard base64 without line
// wrapping. The variant is fixed at construction.
type Content struct {
	data   string
	binary bool
}

// TextContent wraps valid UTF-8 text.
func TextContent(text string) Content {
	return Content{data: text}
}

// BinaryContent wraps an already base64-encoded payload.
func BinaryContent(encoded string) Content {
	return Content{data: encoded, binary: true}
}

// IsBinary reports whether the content is base64-encoded binary.
func (c Content) IsBinary() bool { return c.binary }

// Text returns the literal text and whether this is the text variant.
func (c Content) Text() (string, bool) {
	return c.data, !c.binary
}

// Base64 returns the base64 payload and whether this is the binary variant.
func (c Content) Base64() (string, bool) {
	return c.data, c.binary
}

// EncodedContents returns the content base64-encoded regardless of variant.
// The GraphQL path carries everything as base64, text included.
func (c Content) EncodedContents() string {
	if c.binary {
		return c.data
	}
	return base64.StdEncoding.EncodeToString([]byte(c.data))
}

// ResolveContent reads the staged object behind an add action and classifies
// it. The lookup goes through the content id, never the filesystem path: the
// working tree may have been edited again after staging, and a path-based
// read would commit the wrong bytes.
func ResolveContent(reader BlobReader, change git.PathChange) (Content, error) {
	if change.ObjectKind != plumbing.BlobObject {
		return Content{}, fmt.Errorf("%w: %q resolved to a %s", apperrors.ErrNotABlob, change.Path, change.ObjectKind)
	}

	data, err := reader.ReadBlob(change.ContentID)
	if err != nil {
		return Content{}, apperrors.Wrapf(err, "resolving content for %q", change.Path)
	}

	if utf8.Valid(data) {
		return TextContent(string(data)), nil
	}
	return BinaryContent(base64.StdEncoding.EncodeToString(data)), nil
}
