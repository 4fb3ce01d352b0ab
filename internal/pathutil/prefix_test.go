package pathutil

import "testing"

func TestCommonVolumePrefix(t *testing.T) {
	testCases := []struct {
		paths    []string
		expected string
	}{
		{nil, ""},
		{[]string{"C:/docs/a.txt"}, "C:/docs/a.txt"},
		{[]string{"C:/docs/a.txt", "C:/docs/b.txt"}, "C:/docs"},
		{[]string{"C:/docs/a.txt", "c:/other"}, "C:/"},
		{[]string{`C:\docs\a.txt`, "C:/docs/sub/b.txt"}, "C:/docs"},
		{[]string{"C:/a", "D:/a"}, ""},
		{[]string{"/home/u/a", "/home/u/b", "/home/v"}, "/home"},
		{[]string{"/home/user/a", "/home/username"}, "/home"},
		{[]string{"/a", "/b"}, "/"},
		{[]string{"//srv/share/a", "//srv/share/b"}, "//srv/share"},
	}

	for _, tc := range testCases {
		got := CommonVolumePrefix(tc.paths)
		if got != tc.expected {
			t.Errorf("CommonVolumePrefix(%v): expected %q, got %q", tc.paths, tc.expected, got)
		}
	}
}

func TestParentOf(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
		ok       bool
	}{
		{"/", "", false},
		{"/home", "/", true},
		{"/home/user/", "/home", true},
		{"C:/", "", false},
		{"C:", "", false},
		{"C:/docs", "C:/", true},
		{`C:\docs\sub`, "C:/docs", true},
		{"//srv/share", "", false},
		{"//srv/share/x", "//srv/share", true},
		{"relative", "", false},
	}

	for _, tc := range testCases {
		got, ok := ParentOf(tc.path)
		if got != tc.expected || ok != tc.ok {
			t.Errorf("ParentOf(%q): expected (%q, %v), got (%q, %v)", tc.path, tc.expected, tc.ok, got, ok)
		}
	}
}

func TestParentOf_ReachesFixedPoint(t *testing.T) {
	for _, start := range []string{"/a/b/c/d", "C:/a/b/c", "//srv/share/a/b"} {
		p := start
		for i := 0; i < 32; i++ {
			parent, ok := ParentOf(p)
			if !ok {
				break
			}
			p = parent
		}
		if _, ok := ParentOf(p); ok {
			t.Errorf("%q: did not reach a root, stopped at %q", start, p)
		}
	}
}
