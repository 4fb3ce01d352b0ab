package launch

import (
	"os/exec"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
)

func TestSystemOpenMissingOpener(t *testing.T) {
	s := System{Command: func(path string) *exec.Cmd {
		return exec.Command("dropshell-no-such-opener", path)
	}}

	err := s.Open("/tmp/file.txt")
	if err == nil {
		t.Fatal("expected error for missing opener")
	}
	if code := platformerrors.GetCode(err); code != platformerrors.CodeExecutionFailed {
		t.Errorf("expected code %s, got %s", platformerrors.CodeExecutionFailed, code)
	}
}

func TestSystemUsesPlatformCommand(t *testing.T) {
	cmd := platformCommand("/tmp/file.txt")
	if len(cmd.Args) == 0 || cmd.Args[len(cmd.Args)-1] != "/tmp/file.txt" {
		t.Errorf("expected path as last argument, got %v", cmd.Args)
	}
}

func TestFunc(t *testing.T) {
	var opened string
	var l Launcher = Func(func(path string) error {
		opened = path
		return nil
	})

	if err := l.Open("/a/b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opened != "/a/b" {
		t.Errorf("expected /a/b, got %q", opened)
	}
}
