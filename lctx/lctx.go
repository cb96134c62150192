// Package lctx implements the per-request Local Context: identifiers,
// scratch state, and lifecycle/cleanup coordination for a single request
// flow.
package lctx

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is an advisory marker on an LCtx indicating where in the request
// pipeline it is currently being processed. The phase set is fixed and no
// transition graph is enforced (spec open question — treated as advisory
// metadata only).
type Phase string

const (
	PhaseReceived      Phase = "received"
	PhaseAuthenticated Phase = "authenticated"
	PhaseAuthorized    Phase = "authorized"
	PhaseValidated     Phase = "validated"
	PhaseProcessing    Phase = "processing"
	PhaseCompleted     Phase = "completed"
	PhaseError         Phase = "error"
)

// Options seeds a new LCtx's identifiers. Zero values are generated.
type Options struct {
	RequestID string
	TraceID   string
	ClientID  string
}

// LCtx is the per-request container described in the data model.
type LCtx struct {
	mu sync.RWMutex

	requestID string
	traceID   string
	clientID  string
	timestamp time.Time

	state map[string]any

	lifecycle *Lifecycle
}

// New creates a fresh LCtx. RequestID/TraceID/ClientID are seeded from
// Options when provided, generated otherwise. Two LCtx instances created in
// sequence are guaranteed distinct requestIds.
func New(opts Options) *LCtx {
	rid := opts.RequestID
	if rid == "" {
		rid = newRequestID()
	}
	tid := opts.TraceID
	if tid == "" {
		tid = uuid.NewString()
	}
	return &LCtx{
		requestID: rid,
		traceID:   tid,
		clientID:  opts.ClientID,
		timestamp: time.Now(),
		state:     make(map[string]any),
		lifecycle: newLifecycle(),
	}
}

// newRequestID generates an identifier of the form req_<millis>_<random base36>,
// the format mandated by the spec's data model.
func newRequestID() string {
	millis := time.Now().UnixMilli()
	return fmt.Sprintf("req_%d_%s", millis, randomBase36(8))
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure is not expected in practice; fall back to a
			// time-derived digit so request IDs stay distinct rather than panic.
			b[i] = base36Alphabet[time.Now().Nanosecond()%len(base36Alphabet)]
			continue
		}
		b[i] = base36Alphabet[idx.Int64()]
	}
	return string(b)
}

// RequestID returns the per-request identifier.
func (l *LCtx) RequestID() string { return l.requestID }

// TraceID returns the distributed-trace identifier.
func (l *LCtx) TraceID() string { return l.traceID }

// ClientID returns the caller-supplied client identifier, if any.
func (l *LCtx) ClientID() string { return l.clientID }

// Timestamp returns the LCtx's creation time.
func (l *LCtx) Timestamp() time.Time { return l.timestamp }

// SetState stores a value in the per-request scratch map.
func (l *LCtx) SetState(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state[key] = value
}

// GetState returns a value from the per-request scratch map.
func (l *LCtx) GetState(key string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.state[key]
	return v, ok
}

// Lifecycle returns the cleanup/phase facade for this LCtx.
func (l *LCtx) Lifecycle() *Lifecycle { return l.lifecycle }

// Cleanup runs all registered cleanup hooks concurrently, then empties the
// state map and marks the LCtx as cleaned up. Calling Cleanup more than once
// only runs the hooks on the first call. After Cleanup returns, GetState
// returns nothing for any key and Lifecycle().IsCleaningUp() is true.
func (l *LCtx) Cleanup(ctx context.Context) []error {
	errs := l.lifecycle.runCleanupHooks(ctx)
	l.clearState()
	return errs
}

// stateCopy returns a deep copy of the state map for snapshotting.
func (l *LCtx) stateCopy() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return deepCopyMap(l.state)
}

// replaceState swaps in a new state map (used by snapshot restore).
func (l *LCtx) replaceState(m map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = m
}

// clearState empties the state map in place (used by cleanup).
func (l *LCtx) clearState() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = make(map[string]any)
}
