package pathutil

import (
	"errors"
	"strings"
)

// FileScheme is the only URI prefix accepted in drop payloads.
const FileScheme = "file:///"

var (
	// ErrUnsupportedScheme is returned when a URI is not a local file URI.
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")
	// ErrInvalidURI is returned for local file URIs that cannot be decoded.
	ErrInvalidURI = errors.New("invalid file uri")
)

const upperhex = "0123456789ABCDEF"

// DecodeURI converts a single file:/// URI into an OS path.
//
// The URI must be plain printable ASCII; anything outside that range has to
// arrive percent-encoded. Drive-letter paths lose their leading slash
// ("file:///C:/x" -> "C:/x"), POSIX paths keep it ("file:///tmp" -> "/tmp").
func DecodeURI(raw []byte) (string, error) {
	for _, c := range raw {
		if c < 0x21 || c > 0x7e {
			return "", ErrInvalidURI
		}
	}
	s := string(raw)
	if len(s) < len(FileScheme) || !strings.EqualFold(s[:len(FileScheme)], FileScheme) {
		return "", ErrUnsupportedScheme
	}

	// Keep the slash that starts the path component.
	decoded, err := unescape(s[len(FileScheme)-1:])
	if err != nil {
		return "", err
	}

	// "/C:/x" and the legacy "/C|/x" form
	if len(decoded) >= 3 && decoded[0] == '/' && isLetter(decoded[1]) && (decoded[2] == ':' || decoded[2] == '|') {
		decoded = decoded[1:2] + ":" + decoded[3:]
	}
	if decoded == "" || !IsAbs(decoded) {
		return "", ErrInvalidURI
	}
	return decoded, nil
}

// EncodeURI is the inverse of DecodeURI. Backslashes are written as forward
// slashes, so DecodeURI(EncodeURI(p)) == ToSlash(p).
func EncodeURI(path string) string {
	path = ToSlash(path)
	var b strings.Builder
	b.Grow(len(FileScheme) + len(path)*3/2)
	b.WriteString(FileScheme)
	if strings.HasPrefix(path, "/") {
		path = path[1:]
	}
	for i := 0; i < len(path); i++ {
		c := path[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func shouldEscape(c byte) bool {
	if isLetter(c) || (c >= '0' && c <= '9') {
		return false
	}
	switch c {
	case '-', '.', '_', '~', '/', ':':
		return false
	}
	return true
}

// unescape percent-decodes s byte-wise. Unlike net/url it leaves '+' alone
// and never rejects decoded control bytes; the result is whatever byte
// sequence the sender encoded.
func unescape(s string) (string, error) {
	n := strings.Count(s, "%")
	if n == 0 {
		return s, nil
	}
	buf := make([]byte, 0, len(s)-2*n)
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			buf = append(buf, s[i])
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			return "", ErrInvalidURI
		}
		buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
		i += 2
	}
	return string(buf), nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
