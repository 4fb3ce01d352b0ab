// Package store keeps the transfer journal: one row per drop attempt.
package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/justyntemme/dropshell/internal/debug"
)

// DefaultRecent is the page size used when Recent is asked for zero rows.
const DefaultRecent = 50

// Entry is one journaled drop attempt.
type Entry struct {
	ID       int64
	At       time.Time
	Action   string
	Internal bool
	Items    int
	Target   string
	Sources  []string
	Err      string // empty on success
}

type EventType int

const (
	RecordTransfer EventType = iota
	FetchRecent
)

type Request struct {
	Op    EventType
	Entry Entry
	Limit int
}

type Response struct {
	Op      EventType
	ID      int64
	Entries []Entry
	Err     error
}

// Journal is the SQLite-backed transfer log. It can be used directly or
// driven through RequestChan by running Start in its own goroutine.
type Journal struct {
	conn         *sql.DB
	RequestChan  chan Request
	ResponseChan chan Response
}

func NewJournal() *Journal {
	return &Journal{
		RequestChan:  make(chan Request, 10),
		ResponseChan: make(chan Response, 10),
	}
}

// Open initializes the database connection and schema
func (j *Journal) Open(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to create journal directory")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to open journal")
	}

	// WAL mode allows simultaneous readers and writers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to enable WAL")
	}
	// Synchronous NORMAL is safe against app crashes, faster than FULL
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to set synchronous mode")
	}

	query := `
	CREATE TABLE IF NOT EXISTS transfers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		at INTEGER NOT NULL,
		action TEXT NOT NULL,
		internal INTEGER NOT NULL DEFAULT 0,
		items INTEGER NOT NULL DEFAULT 0,
		target TEXT NOT NULL,
		sources TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);
	`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to create schema")
	}

	j.conn = db
	debug.Log(debug.STORE, "Journal opened at %s", dbPath)
	return nil
}

// Close closes the database. The request channel is left to the owner.
func (j *Journal) Close() error {
	if j.conn == nil {
		return nil
	}
	return j.conn.Close()
}

// Start serves RequestChan until it is closed.
func (j *Journal) Start() {
	for req := range j.RequestChan {
		switch req.Op {
		case RecordTransfer:
			id, err := j.Record(req.Entry)
			j.ResponseChan <- Response{Op: RecordTransfer, ID: id, Err: err}
		case FetchRecent:
			entries, err := j.Recent(req.Limit)
			j.ResponseChan <- Response{Op: FetchRecent, Entries: entries, Err: err}
		}
	}
}

// Record appends e and returns its row id. A zero At is stamped with the
// current time.
func (j *Journal) Record(e Entry) (int64, error) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	sources, err := json.Marshal(e.Sources)
	if err != nil {
		return 0, platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to encode sources")
	}

	res, err := j.conn.Exec(
		"INSERT INTO transfers (at, action, internal, items, target, sources, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.At.UnixNano(), e.Action, e.Internal, e.Items, e.Target, string(sources), e.Err)
	if err != nil {
		return 0, platformerrors.WithContext(
			platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to record transfer"),
			"target", e.Target)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to read row id")
	}
	debug.Log(debug.STORE, "Recorded transfer %d: %s %d -> %s", id, e.Action, len(e.Sources), e.Target)
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecent
	}
	rows, err := j.conn.Query(
		"SELECT id, at, action, internal, items, target, sources, error FROM transfers ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to query transfers")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			at      int64
			sources string
		)
		if err := rows.Scan(&e.ID, &at, &e.Action, &e.Internal, &e.Items, &e.Target, &sources, &e.Err); err != nil {
			return nil, platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to scan transfer")
		}
		e.At = time.Unix(0, at)
		if err := json.Unmarshal([]byte(sources), &e.Sources); err != nil {
			return nil, platformerrors.Wrap(err, platformerrors.CodeDatabase, "corrupt sources column")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeDatabase, "failed to read transfers")
	}
	return entries, nil
}
