package app

import (
	"context"

	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/dnd"
	"github.com/justyntemme/dropshell/internal/pathutil"
	"github.com/justyntemme/dropshell/internal/store"
	"github.com/justyntemme/dropshell/internal/transfer"
	"github.com/justyntemme/dropshell/internal/window"
)

// DragEnter previews the action a drop onto target would take, for the
// drag cursor. Nothing is executed or recorded.
func (s *Shell) DragEnter(h window.Handle, mime string, raw []byte, target string, mods dnd.Modifiers, internal bool) dnd.Action {
	rec, err := s.record(h)
	if err != nil {
		return dnd.Reject
	}
	if target == "" {
		target = rec.Nav.Root()
	}
	d, err := s.resolver.Negotiate(mime, raw, rec.Tree(), target, mods, internal)
	if err != nil {
		return dnd.Reject
	}
	return d.Action
}

// Drop resolves a drop onto target (the window root when empty), executes
// it and journals the attempt. Parse failures abandon the drop and are
// returned with a Reject decision.
func (s *Shell) Drop(ctx context.Context, h window.Handle, mime string, raw []byte, target string, mods dnd.Modifiers, internal bool) (dnd.Decision, transfer.Result, error) {
	var res transfer.Result
	rec, err := s.record(h)
	if err != nil {
		return dnd.Decision{Action: dnd.Reject}, res, err
	}
	if target == "" {
		target = rec.Nav.Root()
	}

	d, err := s.resolver.Negotiate(mime, raw, rec.Tree(), target, mods, internal)
	if err == nil && d.Action != dnd.Reject && s.executor != nil {
		res, err = s.executor.Execute(ctx, d.Action, d.Payload, target)
	}
	s.journalDrop(d, res, err)

	if d.Action != dnd.Reject && res.Items > 0 {
		dirs := []string{target}
		if d.Action == dnd.Move {
			for _, p := range d.Payload {
				if parent, ok := pathutil.ParentOf(p); ok {
					dirs = append(dirs, parent)
				}
			}
		}
		s.refreshRoots(dirs...)
	}

	debug.Log(debug.DND, "Drop in %s: %s %d paths -> %q: %s err=%v", h, d.Action, len(d.Payload), target, res, err)
	return d, res, err
}

func (s *Shell) journalDrop(d dnd.Decision, res transfer.Result, dropErr error) {
	if s.journal == nil {
		return
	}
	e := store.Entry{
		Action:   d.Action.String(),
		Internal: d.Internal,
		Items:    res.Items,
		Target:   d.Target,
		Sources:  []string(d.Payload),
	}
	if dropErr != nil {
		e.Err = dropErr.Error()
	}
	if _, err := s.journal.Record(e); err != nil {
		debug.Log(debug.STORE, "journal: %v", err)
	}
}
