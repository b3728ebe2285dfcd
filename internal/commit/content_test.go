package commit

import (
	"encoding/base64"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mrz1836/appcommit/internal/errors"
	"github.com/mrz1836/appcommit/internal/git"
)

func blobChange(path string, id plumbing.Hash) git.PathChange {
	return git.PathChange{
		Kind:         git.KindAdded,
		ContentID:    id,
		ObjectKind:   plumbing.BlobObject,
		Path:         path,
		OriginalPath: path,
	}
}

func TestResolveContent_Classification(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantBinary bool
	}{
		{
			name: "plain ascii is text",
			data: []byte("foo\n"),
		},
		{
			name: "multi-byte utf-8 is text",
			data: []byte("héllo wörld ✓\n"),
		},
		{
			name: "empty file is text",
			data: []byte{},
		},
		{
			name:       "lone continuation byte is binary",
			data:       []byte{0x80},
			wantBinary: true,
		},
		{
			name:       "valid utf-8 with one invalid byte is binary",
			data:       append([]byte("mostly text "), 0xff),
			wantBinary: true,
		},
		{
			name:       "png header is binary",
			data:       []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a},
			wantBinary: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reader := newFakeBlobReader()
			id := reader.add(tc.data)

			content, err := ResolveContent(reader, blobChange("file.bin", id))
			require.NoError(t, err)
			assert.Equal(t, tc.wantBinary, content.IsBinary())

			if tc.wantBinary {
				encoded, ok := content.Base64()
				require.True(t, ok)

				decoded, decodeErr := base64.StdEncoding.DecodeString(encoded)
				require.NoError(t, decodeErr)
				assert.Equal(t, tc.data, decoded, "base64 round-trip must preserve the bytes")
			} else {
				text, ok := content.Text()
				require.True(t, ok)
				assert.Equal(t, string(tc.data), text)
			}
		})
	}
}

func TestResolveContent_Failures(t *testing.T) {
	t.Run("missing object", func(t *testing.T) {
		reader := newFakeBlobReader()
		change := blobChange("gone.txt", plumbing.NewHash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))

		_, err := ResolveContent(reader, change)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gone.txt")
	})

	t.Run("non-blob object kind", func(t *testing.T) {
		reader := newFakeBlobReader()
		change := blobChange("vendor", reader.add([]byte("x")))
		change.ObjectKind = plumbing.CommitObject

		_, err := ResolveContent(reader, change)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotABlob)
		assert.Contains(t, err.Error(), "vendor")
	})

	t.Run("reader failure is wrapped with the path", func(t *testing.T) {
		reader := newFakeBlobReader()
		id := reader.add([]byte("x"))
		reader.err = errMockReadFailure

		_, err := ResolveContent(reader, blobChange("a.txt", id))
		require.Error(t, err)
		assert.ErrorIs(t, err, errMockReadFailure)
		assert.Contains(t, err.Error(), "a.txt")
	})
}

func TestContent_EncodedContents(t *testing.T) {
	t.Run("text is base64 encoded on demand", func(t *testing.T) {
		content := TextContent("foo\n")
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("foo\n")), content.EncodedContents())
	})

	t.Run("binary passes through unchanged", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte{0x80, 0xff})
		content := BinaryContent(encoded)
		assert.Equal(t, encoded, content.EncodedContents())
	})
}
