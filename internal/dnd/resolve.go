package dnd

import (
	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/pathutil"
)

// Request carries everything a drop decision depends on.
type Request struct {
	Payload   Payload
	Target    string
	Modifiers Modifiers
	Host      pathutil.OSFamily
	// Internal is set when the drag started in one of our own windows.
	Internal bool
}

// Policy picks the action for drops made without modifier keys.
type Policy interface {
	Default(req Request) Action
}

// VolumeAffinity moves within a drive and copies across drives. Hosts
// without drive letters always copy.
type VolumeAffinity struct{}

func (VolumeAffinity) Default(req Request) Action {
	if req.Host.DriveLetters() {
		src := pathutil.DriveOf(pathutil.CommonVolumePrefix(req.Payload), req.Host)
		dst := pathutil.DriveOf(req.Target, req.Host)
		if src != pathutil.UnknownVolume && src == dst {
			return Move
		}
	}
	return Copy
}

// InternalMove moves drags that started inside the application and defers
// to Fallback for everything else.
type InternalMove struct {
	Fallback Policy
}

func (p InternalMove) Default(req Request) Action {
	if req.Internal {
		return Move
	}
	if p.Fallback == nil {
		return VolumeAffinity{}.Default(req)
	}
	return p.Fallback.Default(req)
}

// Resolve applies the drop rule with the volume-affinity default:
//
//	Shift+Ctrl -> Link, Shift -> Move, Ctrl -> Copy,
//	same drive on a drive-letter host -> Move, otherwise Copy.
//
// The internal flag is accepted for callers that log it; it does not change
// the outcome.
func Resolve(payload Payload, target string, mods Modifiers, host pathutil.OSFamily, internal bool) Action {
	return Resolver{}.Resolve(Request{
		Payload:   payload,
		Target:    target,
		Modifiers: mods,
		Host:      host,
		Internal:  internal,
	})
}

// Resolver resolves drops with a pluggable default policy. The zero value
// uses VolumeAffinity.
type Resolver struct {
	Policy Policy
	Host   pathutil.OSFamily
}

// NewResolver returns a resolver for the running host.
func NewResolver(policy Policy) Resolver {
	return Resolver{Policy: policy, Host: pathutil.HostOS()}
}

// Resolve is total over non-empty payloads: modifier chords always win,
// then the policy decides.
func (r Resolver) Resolve(req Request) Action {
	var action Action
	switch {
	case req.Modifiers.Shift && req.Modifiers.Control:
		action = Link
	case req.Modifiers.Shift:
		action = Move
	case req.Modifiers.Control:
		action = Copy
	default:
		policy := r.Policy
		if policy == nil {
			policy = VolumeAffinity{}
		}
		action = policy.Default(req)
	}
	debug.Log(debug.DND, "Resolve: %d paths -> %q mods=%s host=%s internal=%v: %s",
		len(req.Payload), req.Target, req.Modifiers, req.Host, req.Internal, action)
	return action
}

// Decision is the resolved drop, ready for the transfer executor.
type Decision struct {
	Action   Action
	Payload  Payload
	Target   string
	Internal bool
}

// Negotiate runs a complete drop: content-type filter, parse, resolve. A
// failed parse yields a Reject decision together with the parse error.
func (r Resolver) Negotiate(mime string, raw []byte, probe Prober, target string, mods Modifiers, internal bool) (Decision, error) {
	d := Decision{Action: Reject, Target: target, Internal: internal}
	if !Accepts(mime) {
		debug.Log(debug.DND, "Negotiate: rejecting content type %q", mime)
		return d, nil
	}
	payload, err := Parse(raw, probe)
	if err != nil {
		return d, err
	}
	d.Payload = payload
	d.Action = r.Resolve(Request{
		Payload:   payload,
		Target:    target,
		Modifiers: mods,
		Host:      r.Host,
		Internal:  internal,
	})
	return d, nil
}
