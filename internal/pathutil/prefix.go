package pathutil

import "strings"

// ToSlash converts both separator styles to '/', regardless of host.
func ToSlash(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// IsAbs reports whether path is absolute in either POSIX or drive-letter
// form. Bare "C:" counts: it names the drive root.
func IsAbs(path string) bool {
	p := ToSlash(path)
	if strings.HasPrefix(p, "/") {
		return true
	}
	return hasDriveLetter(p) && (len(p) == 2 || p[2] == '/')
}

// CommonVolumePrefix returns the longest common path prefix of paths,
// compared component by component. The drive component compares
// case-insensitively. An empty slice yields "".
func CommonVolumePrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	prefix := splitComponents(ToSlash(paths[0]))
	for _, p := range paths[1:] {
		comps := splitComponents(ToSlash(p))
		n := 0
		for n < len(prefix) && n < len(comps) && sameComponent(n, prefix[n], comps[n]) {
			n++
		}
		prefix = prefix[:n]
		if n == 0 {
			return ""
		}
	}
	return joinComponents(prefix)
}

// ParentOf returns the parent directory of path, or false when path is a
// root ("/", "C:/", "//server/share").
func ParentOf(path string) (string, bool) {
	p := strings.TrimRight(ToSlash(path), "/")
	if p == "" || (hasDriveLetter(p) && len(p) == 2) {
		return "", false
	}
	if share, ok := uncShare(p); ok && share == p {
		return "", false
	}
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return "", false
	}
	parent := strings.TrimRight(p[:i], "/")
	switch {
	case parent == "":
		return "/", true
	case hasDriveLetter(parent) && len(parent) == 2:
		return parent + "/", true
	}
	return parent, true
}

// splitComponents splits a slash path into components, keeping a leading
// "/" or "//" as its own component so absolute and UNC roots survive a
// round trip through joinComponents.
func splitComponents(p string) []string {
	var comps []string
	switch {
	case strings.HasPrefix(p, "//"):
		comps = append(comps, "//")
		p = strings.TrimLeft(p, "/")
	case strings.HasPrefix(p, "/"):
		comps = append(comps, "/")
		p = strings.TrimLeft(p, "/")
	}
	for _, c := range strings.Split(p, "/") {
		if c != "" {
			comps = append(comps, c)
		}
	}
	return comps
}

func joinComponents(comps []string) string {
	if len(comps) == 0 {
		return ""
	}
	var b strings.Builder
	for i, c := range comps {
		b.WriteString(c)
		if c == "/" || c == "//" {
			continue
		}
		if i < len(comps)-1 || (len(comps) == 1 && hasDriveLetter(c)) {
			b.WriteByte('/')
		}
	}
	return b.String()
}

func sameComponent(i int, a, b string) bool {
	if i == 0 && hasDriveLetter(a) && hasDriveLetter(b) {
		return strings.EqualFold(a, b)
	}
	return a == b
}
