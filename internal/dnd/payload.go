package dnd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/pathutil"
)

const (
	// MIMEURIList is the standard drag payload for file references.
	MIMEURIList = "text/uri-list"
	// FileDragMIME is offered by our own views; it carries the same format.
	FileDragMIME = "application/x-dropshell-uri-list"
)

var (
	// ErrUnsupportedScheme is returned for entries that are not file:/// URIs.
	ErrUnsupportedScheme = pathutil.ErrUnsupportedScheme
	// ErrEmptyPayload is returned when the payload names no paths at all.
	ErrEmptyPayload = errors.New("empty drop payload")
)

// InvalidEntryError reports the payload line that could not be decoded.
type InvalidEntryError struct {
	Index int
	Line  string
	Err   error
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid payload entry %d (%q): %v", e.Index, e.Line, e.Err)
}

func (e *InvalidEntryError) Unwrap() error { return e.Err }

// PathNotFoundError reports a decoded path that does not exist.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("dropped path does not exist: %s", e.Path)
}

// Prober answers existence checks. fs.Tree satisfies it.
type Prober interface {
	Exists(path string) bool
}

// Payload is the ordered, non-empty list of paths carried by a drop.
// Existence was checked once at parse time; paths may have gone stale since.
type Payload []string

// Accepts reports whether a drop of the declared content type can carry a
// file list. Anything else must be rejected before Parse is called.
func Accepts(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime == MIMEURIList || mime == FileDragMIME
}

// Parse decodes a text/uri-list payload. Lines end in CRLF (bare LF is
// tolerated) and the segment after the final terminator is dropped. Lines
// starting with '#' are comments. The parse is atomic: every line is
// decoded before any path is probed, and the first failure rejects the
// whole payload.
func Parse(raw []byte, probe Prober) (Payload, error) {
	lines := bytes.Split(raw, []byte("\n"))
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}

	for i := range lines {
		lines[i] = bytes.TrimSuffix(lines[i], []byte("\r"))
	}
	if allBlank(lines) {
		return nil, ErrEmptyPayload
	}

	var payload Payload
	for i, line := range lines {
		if len(line) > 0 && line[0] == '#' {
			continue
		}

		path, err := pathutil.DecodeURI(line)
		if err != nil {
			debug.Log(debug.DND, "Parse: entry %d rejected: %v", i, err)
			return nil, &InvalidEntryError{Index: i, Line: string(line), Err: err}
		}
		payload = append(payload, path)
	}

	// Existence is only probed once every line has decoded.
	for _, path := range payload {
		if !probe.Exists(path) {
			debug.Log(debug.DND, "Parse: missing: %s", path)
			return nil, &PathNotFoundError{Path: path}
		}
	}

	debug.Log(debug.DND, "Parse: %d paths", len(payload))
	return payload, nil
}

// allBlank reports whether no line can carry an entry.
func allBlank(lines [][]byte) bool {
	for _, line := range lines {
		if len(line) > 0 && line[0] != '#' {
			return false
		}
	}
	return true
}

// Encode renders paths as a CRLF-terminated text/uri-list payload.
func Encode(paths []string) []byte {
	var b bytes.Buffer
	for _, p := range paths {
		b.WriteString(pathutil.EncodeURI(p))
		b.WriteString("\r\n")
	}
	return b.Bytes()
}
