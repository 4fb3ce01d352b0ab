package dnd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/dropshell/internal/pathutil"
)

// existing is a Prober backed by a fixed set of paths.
type existing map[string]bool

func (e existing) Exists(path string) bool { return e[path] }

func probeAll(paths ...string) existing {
	e := existing{}
	for _, p := range paths {
		e[p] = true
	}
	return e
}

func TestParse_DriveLetterPayload(t *testing.T) {
	raw := []byte("file:///C:/docs/a.txt\r\nfile:///C:/docs/b.txt\r\n")

	payload, err := Parse(raw, probeAll("C:/docs/a.txt", "C:/docs/b.txt"))

	require.NoError(t, err)
	assert.Equal(t, Payload{"C:/docs/a.txt", "C:/docs/b.txt"}, payload)
}

func TestParse_PreservesOrder(t *testing.T) {
	paths := []string{"/z/last", "/a/first", "/m/middle"}

	payload, err := Parse(Encode(paths), probeAll(paths...))

	require.NoError(t, err)
	assert.Equal(t, Payload(paths), payload)
}

func TestParse_BareLineFeeds(t *testing.T) {
	payload, err := Parse([]byte("file:///tmp/a\nfile:///tmp/b"), probeAll("/tmp/a", "/tmp/b"))

	require.NoError(t, err)
	assert.Equal(t, Payload{"/tmp/a", "/tmp/b"}, payload)
}

func TestParse_SkipsComments(t *testing.T) {
	raw := []byte("# dragged from somewhere\r\nfile:///tmp/a\r\n")

	payload, err := Parse(raw, probeAll("/tmp/a"))

	require.NoError(t, err)
	assert.Equal(t, Payload{"/tmp/a"}, payload)
}

func TestParse_Empty(t *testing.T) {
	for _, raw := range []string{"", "\r\n", "\r\n\r\n", "# only a comment\r\n"} {
		_, err := Parse([]byte(raw), probeAll())
		assert.ErrorIs(t, err, ErrEmptyPayload, "payload %q", raw)
	}
}

func TestParse_InvalidLastEntryIsAtomic(t *testing.T) {
	raw := []byte("file:///a\r\nnot-a-uri\r\n")

	payload, err := Parse(raw, probeAll("/a"))

	assert.Nil(t, payload)
	var invalid *InvalidEntryError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 1, invalid.Index)
	assert.Equal(t, "not-a-uri", invalid.Line)
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestParse_DecodeFailureBeatsMissingPath(t *testing.T) {
	raw := []byte("file:///a\r\nnot-a-uri\r\n")

	payload, err := Parse(raw, probeAll())

	assert.Nil(t, payload)
	var invalid *InvalidEntryError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Index)
	var missing *PathNotFoundError
	assert.False(t, errors.As(err, &missing))
}

func TestParse_MissingPathAfterAllDecode(t *testing.T) {
	raw := []byte("file:///a\r\nfile:///b\r\n")

	_, err := Parse(raw, probeAll("/a"))

	var missing *PathNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "/b", missing.Path)
}

func TestParse_InvalidEntries(t *testing.T) {
	testCases := []struct {
		name  string
		raw   string
		index int
		cause error
	}{
		{"network uri", "http://host/a\r\n", 0, ErrUnsupportedScheme},
		{"remote host", "file:///tmp/a\r\nfile://server/share/b\r\n", 1, ErrUnsupportedScheme},
		{"bad escape", "file:///tmp/a%GG\r\n", 0, pathutil.ErrInvalidURI},
		{"blank line between entries", "file:///tmp/a\r\n\r\nfile:///tmp/b\r\n", 1, ErrUnsupportedScheme},
		{"raw non-ascii", "file:///tmp/ä\r\n", 0, pathutil.ErrInvalidURI},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.raw), probeAll("/tmp/a", "/tmp/b", "//server/share/b"))

			var invalid *InvalidEntryError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.index, invalid.Index)
			assert.ErrorIs(t, err, tc.cause)
		})
	}
}

func TestParse_PathNotFound(t *testing.T) {
	raw := []byte("file:///tmp/a\r\nfile:///tmp/gone\r\n")

	payload, err := Parse(raw, probeAll("/tmp/a"))

	assert.Nil(t, payload)
	var missing *PathNotFoundError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "/tmp/gone", missing.Path)
}

func TestParse_DecodesPercentEscapes(t *testing.T) {
	raw := []byte("file:///home/user/My%20Documents/r%C3%A9sum%C3%A9.pdf\r\n")
	want := "/home/user/My Documents/résumé.pdf"

	payload, err := Parse(raw, probeAll(want))

	require.NoError(t, err)
	assert.Equal(t, Payload{want}, payload)
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts("text/uri-list"))
	assert.True(t, Accepts("Text/URI-List; charset=utf-8"))
	assert.True(t, Accepts(FileDragMIME))
	assert.False(t, Accepts("text/plain"))
	assert.False(t, Accepts(""))
}
