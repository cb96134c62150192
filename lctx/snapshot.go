package lctx

import "time"

// Snapshot is an independent, point-in-time copy of an LCtx's identifiers and
// scratch state. Mutating a Snapshot's State map, or mutating the LCtx that
// produced it, never affects the other.
type Snapshot struct {
	RequestID string
	TraceID   string
	ClientID  string
	Timestamp time.Time
	State     map[string]any
	Phase     Phase

	lastHookIndex int
}

// Snapshot captures the LCtx's current identifiers, state, and phase. The
// returned Snapshot shares no mutable structure with the LCtx: all nested
// maps and slices in State are deep-copied.
func (l *LCtx) Snapshot() *Snapshot {
	return &Snapshot{
		RequestID:     l.requestID,
		TraceID:       l.traceID,
		ClientID:      l.clientID,
		Timestamp:     l.timestamp,
		State:         l.stateCopy(),
		Phase:         l.lifecycle.Phase(),
		lastHookIndex: l.lifecycle.lastHookIndex(),
	}
}

// Restore replaces the LCtx's identifiers, state, and phase with the
// snapshot's contents (state is deep-copied). Restoring a Snapshot twice in
// a row yields the same observable state both times.
func (l *LCtx) Restore(s *Snapshot) {
	l.requestID = s.RequestID
	l.traceID = s.TraceID
	l.clientID = s.ClientID
	l.timestamp = s.Timestamp
	l.replaceState(deepCopyMap(s.State))
	l.lifecycle.restorePhaseAndHookIndex(s.Phase, s.lastHookIndex)
}

// deepCopyMap recursively copies a map[string]any, descending into nested
// maps and slices so the result shares no mutable structure with the input.
// Values of other concrete types (including pointers) are copied by
// reference, matching Go's normal assignment semantics for opaque values.
func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
