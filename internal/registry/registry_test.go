package registry

import (
	"fmt"
	"sync"
	"testing"
)

// engineStub stands in for the native engine's liveness probe. Handles are
// live until explicitly killed.
type engineStub struct {
	mu   sync.Mutex
	dead map[Handle]bool
}

func newEngineStub() *engineStub {
	return &engineStub{dead: make(map[Handle]bool)}
}

func (e *engineStub) kill(h Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dead[h] = true
}

func (e *engineStub) probe(h Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.dead[h]
}

func newTestRegistry(t *testing.T, stub *engineStub) *Registry {
	t.Helper()
	return New(Config{
		Probe: stub.probe,
		Logf:  t.Logf,
	})
}

func handle(kind Kind, value, ctx uintptr) Handle {
	return Handle{Kind: kind, Value: value, Context: ctx}
}

func TestAttachFetch(t *testing.T) {
	stub := newEngineStub()
	r := newTestRegistry(t, stub)

	h := handle(KindEventInstance, 0x1, 0xA)
	prev, err := r.Attach(h, "x", nil, true)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if prev != nil {
		t.Errorf("Attach to fresh handle returned prev %v", prev)
	}

	got, ok := r.Fetch(h)
	if !ok || got != "x" {
		t.Errorf("Fetch = %v, %v; want x, true", got, ok)
	}
}

func TestFetchNotFound(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	if _, ok := r.Fetch(handle(KindBank, 0x99, 0xA)); ok {
		t.Error("Fetch of unattached handle should report not found")
	}
}

func TestAttachDeadHandle(t *testing.T) {
	stub := newEngineStub()
	r := newTestRegistry(t, stub)

	h := handle(KindEventInstance, 0x7, 0xA)
	stub.kill(h)

	if _, err := r.Attach(h, "x", nil, true); err != ErrInvalidHandle {
		t.Errorf("Attach to dead handle: err = %v, want ErrInvalidHandle", err)
	}
	if r.Count() != 0 {
		t.Errorf("dead attach created an entry: count = %d", r.Count())
	}
}

func TestAttachReplacesAndCleans(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	h := handle(KindEventInstance, 0x1, 0xA)
	cleanups := 0
	if _, err := r.Attach(h, "p1", func(any) { cleanups++ }, true); err != nil {
		t.Fatalf("Attach p1: %v", err)
	}
	prev, err := r.Attach(h, "p2", nil, true)
	if err != nil {
		t.Fatalf("Attach p2: %v", err)
	}

	if prev != "p1" {
		t.Errorf("replacement returned prev %v, want p1", prev)
	}
	if cleanups != 1 {
		t.Errorf("cleanup(p1) ran %d times, want 1", cleanups)
	}
	if got, _ := r.Fetch(h); got != "p2" {
		t.Errorf("Fetch after replacement = %v, want p2", got)
	}
}

func TestRemoveSkipsCleanup(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	h := handle(KindBank, 0x2, 0xA)
	cleanups := 0
	if _, err := r.Attach(h, 42, func(any) { cleanups++ }, false); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	got, ok := r.Remove(h)
	if !ok || got != 42 {
		t.Fatalf("Remove = %v, %v; want 42, true", got, ok)
	}
	if cleanups != 0 {
		t.Errorf("Remove ran cleanup %d times, want 0 (ownership returns to caller)", cleanups)
	}
	if _, ok := r.Fetch(h); ok {
		t.Error("Fetch after Remove should report not found")
	}
}

func TestReclaimDestructionCallback(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	h := handle(KindEventInstance, 0x2, 0xA)
	counter := 0
	if _, err := r.Attach(h, 42, func(any) { counter++ }, true); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := r.SetHandler(h, "handler", 0xFF); err != nil {
		t.Fatalf("SetHandler: %v", err)
	}

	// Simulate the native destruction callback firing for 0x2.
	handler, ctx, reclaimed := r.Reclaim(KindEventInstance, 0x2)
	if !reclaimed {
		t.Fatal("Reclaim found no payload")
	}
	if handler != "handler" {
		t.Errorf("Reclaim handler = %v, want handler for forwarding", handler)
	}
	if ctx != 0xA {
		t.Errorf("Reclaim ctx = %#x, want 0xA", ctx)
	}
	if counter != 1 {
		t.Errorf("cleanup ran %d times, want exactly 1", counter)
	}
	if _, ok := r.Fetch(h); ok {
		t.Error("Fetch after destruction should report not found")
	}

	// Second destruction event for the same handle is a no-op passthrough.
	if _, _, again := r.Reclaim(KindEventInstance, 0x2); again {
		t.Error("second Reclaim reported a payload")
	}
	if counter != 1 {
		t.Errorf("cleanup ran %d times after double reclaim, want 1", counter)
	}
}

func TestReclaimRacingAttachCleansOnce(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	h := handle(KindEventInstance, 0xE, 0xA)
	cleanups := 0
	entered := make(chan struct{})
	release := make(chan struct{})
	first := true
	_, err := r.Attach(h, "p1", func(any) {
		cleanups++
		if first {
			first = false
			close(entered)
			<-release
		}
	}, true)
	if err != nil {
		t.Fatalf("Attach p1: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Reclaim(KindEventInstance, 0xE)
	}()
	<-entered

	// The destruction callback is mid-cleanup; a re-attach on the same key
	// must not see p1 and clean it a second time.
	if _, err := r.Attach(h, "p2", nil, true); err != nil {
		t.Fatalf("Attach p2: %v", err)
	}
	close(release)
	<-done

	if cleanups != 1 {
		t.Errorf("cleanup(p1) ran %d times, want exactly 1", cleanups)
	}
	// The re-attach raced the destruction and wins: its entry is left in
	// place.
	if got, ok := r.Fetch(h); !ok || got != "p2" {
		t.Errorf("Fetch after racing attach = %v, %v; want p2, true", got, ok)
	}
}

func TestReclaimNoEntry(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	if handler, _, reclaimed := r.Reclaim(KindEventInstance, 0x55); reclaimed || handler != nil {
		t.Errorf("Reclaim of unknown handle = %v, %v; want nil, false", handler, reclaimed)
	}
}

func TestSweepReclaimsDeadEntries(t *testing.T) {
	stub := newEngineStub()
	r := newTestRegistry(t, stub)

	h := handle(KindEventDescription, 0x3, 0xA)
	cleanups := 0
	if _, err := r.Attach(h, "payload", func(any) { cleanups++ }, false); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	// Handle still live: sweep must leave the entry intact.
	if n := r.Sweep(0xA); n != 0 {
		t.Errorf("Sweep of live entries reclaimed %d, want 0", n)
	}
	if _, ok := r.Fetch(h); !ok {
		t.Fatal("sweep removed a live entry")
	}

	stub.kill(h)
	if n := r.Sweep(0xA); n != 1 {
		t.Errorf("Sweep reclaimed %d, want 1", n)
	}
	if cleanups != 1 {
		t.Errorf("cleanup ran %d times, want exactly 1", cleanups)
	}
	if _, ok := r.Fetch(h); ok {
		t.Error("Fetch after sweep should report not found")
	}
}

func TestSweepSkipsNotifiedEntries(t *testing.T) {
	stub := newEngineStub()
	r := newTestRegistry(t, stub)

	h := handle(KindEventInstance, 0x4, 0xA)
	if _, err := r.Attach(h, "payload", nil, true); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	stub.kill(h)

	// Notified kinds are reclaimed by their destruction callback, never the
	// sweep.
	if n := r.Sweep(0xA); n != 0 {
		t.Errorf("Sweep reclaimed %d notified entries, want 0", n)
	}
	if _, ok := r.Fetch(h); !ok {
		t.Error("sweep removed a notified entry")
	}
}

func TestSweepOtherContextUntouched(t *testing.T) {
	stub := newEngineStub()
	r := newTestRegistry(t, stub)

	ha := handle(KindBus, 0x5, 0xA)
	hb := handle(KindBus, 0x5, 0xB)
	if _, err := r.Attach(ha, "a", nil, false); err != nil {
		t.Fatalf("Attach a: %v", err)
	}
	if _, err := r.Attach(hb, "b", nil, false); err != nil {
		t.Fatalf("Attach b: %v", err)
	}
	stub.kill(ha)
	stub.kill(hb)

	if n := r.Sweep(0xA); n != 1 {
		t.Errorf("Sweep(0xA) reclaimed %d, want 1", n)
	}
	if _, ok := r.Fetch(hb); !ok {
		t.Error("Sweep(0xA) removed an entry scoped to context 0xB")
	}
}

func TestInvalidateContext(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	h := handle(KindEventInstance, 0x1, 0xA)
	if _, err := r.Attach(h, "x", nil, true); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if got, _ := r.Fetch(h); got != "x" {
		t.Fatalf("Fetch before teardown = %v, want x", got)
	}

	if n := r.InvalidateContext(0xA); n != 1 {
		t.Errorf("InvalidateContext cleaned %d, want 1", n)
	}
	if _, ok := r.Fetch(h); ok {
		t.Error("Fetch after context teardown should report not found")
	}
}

func TestInvalidateContextIdempotent(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	cleanups := 0
	for i := uintptr(1); i <= 3; i++ {
		h := handle(KindBank, i, 0xA)
		if _, err := r.Attach(h, i, func(any) { cleanups++ }, false); err != nil {
			t.Fatalf("Attach %d: %v", i, err)
		}
	}

	r.InvalidateContext(0xA)
	if cleanups != 3 {
		t.Fatalf("first invalidation ran %d cleanups, want 3", cleanups)
	}

	if n := r.InvalidateContext(0xA); n != 0 {
		t.Errorf("second invalidation cleaned %d, want 0", n)
	}
	if cleanups != 3 {
		t.Errorf("second invalidation ran cleanups again: %d, want 3", cleanups)
	}
}

func TestTickSweepCadence(t *testing.T) {
	stub := newEngineStub()
	r := New(Config{Probe: stub.probe, SweepEvery: 5})

	h := handle(KindVCA, 0x6, 0xA)
	if _, err := r.Attach(h, "v", nil, false); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	stub.kill(h)

	for i := 0; i < 4; i++ {
		if n := r.TickSweep(0xA); n != 0 {
			t.Fatalf("tick %d swept early: %d", i+1, n)
		}
	}
	if n := r.TickSweep(0xA); n != 1 {
		t.Errorf("5th tick reclaimed %d, want 1", n)
	}
}

func TestSetSweepEveryClamped(t *testing.T) {
	stub := newEngineStub()
	r := New(Config{Probe: stub.probe})
	r.SetSweepEvery(0)

	h := handle(KindBus, 0x8, 0xA)
	if _, err := r.Attach(h, "b", nil, false); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	stub.kill(h)

	// Clamped to 1: every tick sweeps.
	if n := r.TickSweep(0xA); n != 1 {
		t.Errorf("TickSweep with interval 0 reclaimed %d, want 1", n)
	}
}

func TestCleanupPanicDoesNotLeakSlot(t *testing.T) {
	r := New(Config{Logf: t.Logf})

	h := handle(KindEventInstance, 0x9, 0xA)
	if _, err := r.Attach(h, "x", func(any) { panic("broken cleanup") }, true); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if _, _, reclaimed := r.Reclaim(KindEventInstance, 0x9); !reclaimed {
		t.Fatal("Reclaim did not report the payload")
	}
	if _, ok := r.Fetch(h); ok {
		t.Error("entry survived a panicking cleanup")
	}
	if r.Count() != 0 {
		t.Errorf("count after panicking cleanup = %d, want 0", r.Count())
	}
}

func TestHandlerSurvivesPayloadReplacement(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	h := handle(KindEventInstance, 0xB, 0xA)
	if err := r.SetHandler(h, "handler", 0x2); err != nil {
		t.Fatalf("SetHandler: %v", err)
	}
	if _, err := r.Attach(h, "p1", nil, true); err != nil {
		t.Fatalf("Attach p1: %v", err)
	}
	if _, err := r.Attach(h, "p2", nil, true); err != nil {
		t.Fatalf("Attach p2: %v", err)
	}

	handler, mask, ctx, ok := r.Handler(KindEventInstance, 0xB)
	if !ok || handler != "handler" || mask != 0x2 || ctx != 0xA {
		t.Errorf("Handler = %v, %#x, %#x, %v; want handler, 0x2, 0xA, true", handler, mask, ctx, ok)
	}
}

func TestMarkInstalledOnce(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	h := handle(KindEventInstance, 0xC, 0xA)
	if !r.MarkInstalled(h) {
		t.Error("first MarkInstalled should report true")
	}
	if r.MarkInstalled(h) {
		t.Error("second MarkInstalled should report false")
	}
}

func TestConcurrentDisjointKeys(t *testing.T) {
	const goroutines = 32
	const opsPerKey = 200

	r := newTestRegistry(t, newEngineStub())

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			h := handle(KindEventInstance, uintptr(0x1000+g), 0xA)
			for i := 0; i < opsPerKey; i++ {
				if _, err := r.Attach(h, fmt.Sprintf("g%d-i%d", g, i), nil, true); err != nil {
					t.Errorf("Attach: %v", err)
					return
				}
				if _, ok := r.Fetch(h); !ok {
					t.Errorf("goroutine %d: Fetch lost its payload", g)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	// Each handle's final state reflects the last operation issued on it.
	for g := 0; g < goroutines; g++ {
		h := handle(KindEventInstance, uintptr(0x1000+g), 0xA)
		want := fmt.Sprintf("g%d-i%d", g, opsPerKey-1)
		if got, ok := r.Fetch(h); !ok || got != want {
			t.Errorf("handle %#x final payload = %v, want %v", h.Value, got, want)
		}
	}
}

func TestConcurrentSweepAndAttach(t *testing.T) {
	stub := newEngineStub()
	r := New(Config{Probe: stub.probe, SweepEvery: 1})

	const keys = 64
	for i := 0; i < keys; i++ {
		h := handle(KindEventDescription, uintptr(0x2000+i), 0xA)
		if _, err := r.Attach(h, i, nil, false); err != nil {
			t.Fatalf("Attach: %v", err)
		}
		if i%2 == 0 {
			stub.kill(h)
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			r.Sweep(0xA)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < keys; i++ {
			h := handle(KindEventDescription, uintptr(0x3000+i), 0xA)
			if _, err := r.Attach(h, i, nil, false); err != nil {
				t.Errorf("Attach during sweep: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	// Live entries survive every sweep pass.
	for i := 1; i < keys; i += 2 {
		h := handle(KindEventDescription, uintptr(0x2000+i), 0xA)
		if _, ok := r.Fetch(h); !ok {
			t.Errorf("sweep reclaimed live handle %#x", h.Value)
		}
	}
	for i := 0; i < keys; i++ {
		h := handle(KindEventDescription, uintptr(0x3000+i), 0xA)
		if _, ok := r.Fetch(h); !ok {
			t.Errorf("attach during sweep lost handle %#x", h.Value)
		}
	}
}

func TestContextsShareHandleValues(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	// The same numeric handle value under two contexts gets independent
	// entries.
	ha := handle(KindBank, 0xD, 0xA)
	hb := handle(KindBank, 0xD, 0xB)
	if _, err := r.Attach(ha, "ctx-a", nil, false); err != nil {
		t.Fatalf("Attach a: %v", err)
	}
	if _, err := r.Attach(hb, "ctx-b", nil, false); err != nil {
		t.Fatalf("Attach b: %v", err)
	}

	if got, _ := r.Fetch(ha); got != "ctx-a" {
		t.Errorf("Fetch(ctx A) = %v, want ctx-a", got)
	}
	if got, _ := r.Fetch(hb); got != "ctx-b" {
		t.Errorf("Fetch(ctx B) = %v, want ctx-b", got)
	}

	r.InvalidateContext(0xA)
	if _, ok := r.Fetch(hb); !ok {
		t.Error("invalidating context A dropped context B's entry")
	}
}

func TestCount(t *testing.T) {
	r := newTestRegistry(t, newEngineStub())

	for i := uintptr(1); i <= 10; i++ {
		if _, err := r.Attach(handle(KindBus, i, 0xA), i, nil, false); err != nil {
			t.Fatalf("Attach: %v", err)
		}
	}
	if r.Count() != 10 {
		t.Errorf("Count = %d, want 10", r.Count())
	}

	r.InvalidateContext(0xA)
	if r.Count() != 0 {
		t.Errorf("Count after teardown = %d, want 0", r.Count())
	}
}
