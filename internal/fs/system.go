// Package fs is the filesystem-tree collaborator: existence and directory
// probes through Tree, single-level listings through the System worker, and
// drive enumeration for the top-level "Computer" node.
package fs

import (
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/justyntemme/dropshell/internal/debug"
)

type OpType int

const (
	FetchDir OpType = iota
)

type Request struct {
	Op     OpType
	Path   string
	Gen    int64  // Generation counter to track stale requests
	Window string // Window the listing is for
}

type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

type Response struct {
	Op      OpType
	Path    string
	Window  string
	Entries []Entry
	Err     error
	Gen     int64 // Generation counter from request
}

// System serves directory listings off the event goroutine.
type System struct {
	RequestChan  chan Request
	ResponseChan chan Response
}

func NewSystem() *System {
	return &System{
		RequestChan:  make(chan Request, 10),
		ResponseChan: make(chan Response, 10),
	}
}

// Start processes requests until RequestChan is closed.
func (s *System) Start() {
	for req := range s.RequestChan {
		debug.Log(debug.FS, "Request: op=%d path=%q window=%s gen=%d", req.Op, req.Path, req.Window, req.Gen)

		switch req.Op {
		case FetchDir:
			resp := s.fetchDir(req.Path)
			resp.Gen = req.Gen
			resp.Window = req.Window
			debug.Log(debug.FS, "FetchDir response: path=%q entries=%d gen=%d err=%v",
				resp.Path, len(resp.Entries), resp.Gen, resp.Err)
			s.ResponseChan <- resp
		}
	}
}

func (s *System) fetchDir(path string) Response {
	if path == ComputerRoot {
		return Response{Op: FetchDir, Path: path, Entries: driveEntries(ListDrives())}
	}

	var result []Entry
	var mu sync.Mutex

	conf := &fastwalk.Config{
		Follow: true, // Follow symlinks to get target info
	}
	pathLen := len(path)

	err := fastwalk.Walk(conf, path, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			debug.Log(debug.FS_ENTRY, "fetchDir: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == path {
			return nil
		}

		// Only direct children: the remainder after the root must not
		// contain another separator.
		relStart := pathLen
		if relStart < len(fullPath) && (fullPath[relStart] == '/' || fullPath[relStart] == '\\') {
			relStart++
		}
		if strings.ContainsAny(fullPath[relStart:], "/\\") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			// Broken symlink: report the link itself
			info, err = os.Lstat(fullPath)
			if err != nil {
				debug.Log(debug.FS_ENTRY, "fetchDir: skipping %q: stat error: %v", d.Name(), err)
				return nil
			}
		}

		mu.Lock()
		result = append(result, Entry{
			Name:    d.Name(),
			Path:    fullPath,
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		debug.Log(debug.FS, "fetchDir: walk error: %v", err)
		return Response{Op: FetchDir, Path: path, Err: err}
	}

	sortEntries(result)
	return Response{Op: FetchDir, Path: path, Entries: result}
}

// sortEntries orders directories first, then by case-insensitive name.
// fastwalk visits children concurrently, so its order is not stable.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

func driveEntries(drives []Drive) []Entry {
	entries := make([]Entry, 0, len(drives))
	for _, d := range drives {
		entries = append(entries, Entry{Name: d.Name, Path: d.Path, IsDir: true})
	}
	return entries
}
