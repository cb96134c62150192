package lctx

import (
	"context"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"
)

func TestNewGeneratesDistinctRequestIDs(t *testing.T) {
	a := New(Options{})
	b := New(Options{})
	if a.RequestID() == b.RequestID() {
		t.Fatalf("expected distinct requestIds, got %q twice", a.RequestID())
	}
}

func TestRequestIDFormat(t *testing.T) {
	l := New(Options{})
	re := regexp.MustCompile(`^req_[0-9]+_[0-9a-z]{8}$`)
	if !re.MatchString(l.RequestID()) {
		t.Fatalf("requestId %q does not match %s", l.RequestID(), re.String())
	}
}

func TestOptionsSeedIdentifiers(t *testing.T) {
	l := New(Options{RequestID: "req_1_abc", TraceID: "trace-1", ClientID: "client-1"})
	if l.RequestID() != "req_1_abc" || l.TraceID() != "trace-1" || l.ClientID() != "client-1" {
		t.Fatalf("identifiers not seeded from Options: %+v", l)
	}
}

func TestSetGetState(t *testing.T) {
	l := New(Options{})
	l.SetState("k1", "v1")
	v, ok := l.GetState("k1")
	if !ok || v != "v1" {
		t.Fatalf("GetState = %v, %v", v, ok)
	}
	if _, ok := l.GetState("missing"); ok {
		t.Fatalf("expected missing key to be absent")
	}
}

func TestCleanupEmptiesStateAndSetsFlag(t *testing.T) {
	l := New(Options{})
	l.SetState("k1", "v1")
	var ran int32
	l.Lifecycle().OnCleanup(func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	if l.Lifecycle().IsCleaningUp() {
		t.Fatalf("expected not cleaning up before Cleanup")
	}
	errs := l.Cleanup(context.Background())
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatalf("expected cleanup hook to run once")
	}
	if !l.Lifecycle().IsCleaningUp() {
		t.Fatalf("expected cleaning up after Cleanup")
	}
	if _, ok := l.GetState("k1"); ok {
		t.Fatalf("expected state to be empty after Cleanup")
	}
}

func TestCleanupRunsHooksAtMostOnce(t *testing.T) {
	l := New(Options{})
	var calls int32
	l.Lifecycle().OnCleanup(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	l.Cleanup(context.Background())
	l.Cleanup(context.Background())
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestCleanupIsolatesHookErrors(t *testing.T) {
	l := New(Options{})
	var ranSecond int32
	l.Lifecycle().OnCleanup(func(ctx context.Context) error {
		return errors.New("boom")
	})
	l.Lifecycle().OnCleanup(func(ctx context.Context) error {
		atomic.AddInt32(&ranSecond, 1)
		return nil
	})
	errs := l.Cleanup(context.Background())
	if len(errs) != 1 {
		t.Fatalf("errs = %v", errs)
	}
	if atomic.LoadInt32(&ranSecond) != 1 {
		t.Fatalf("expected second hook to still run despite first failing")
	}
}

func TestPhaseDefaultsToReceived(t *testing.T) {
	l := New(Options{})
	if l.Lifecycle().Phase() != PhaseReceived {
		t.Fatalf("phase = %v, want %v", l.Lifecycle().Phase(), PhaseReceived)
	}
	l.Lifecycle().SetPhase(PhaseProcessing)
	if l.Lifecycle().Phase() != PhaseProcessing {
		t.Fatalf("phase = %v, want %v", l.Lifecycle().Phase(), PhaseProcessing)
	}
}
