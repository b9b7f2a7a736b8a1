// Package registry tracks caller-supplied userdata attached to opaque FMOD
// handles.
//
// FMOD handles are plain addresses owned by the engine. Most handle kinds have
// no destruction notification, many independent handle values can alias the
// same engine object, and releasing a Studio System invalidates every handle
// created under it at once. The registry therefore keys payloads by
// (kind, value, owning system) and reclaims them three ways: a destruction
// callback for kinds that have one (Reclaim), a periodic liveness sweep for
// kinds that do not (Sweep, driven by the engine update tick), and bulk
// invalidation when the owning system is released (InvalidateContext).
//
// Payloads on kinds without a destruction callback are reclaimed eventually,
// bounded by the sweep interval, not immediately. Context invalidation is the
// backstop for every kind.
package registry

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Kind tags a handle with the engine type it refers to.
type Kind uint8

// Handle kinds known to the registry. KindSystem doubles as the context kind:
// releasing a system invalidates every entry scoped to it.
const (
	KindSystem Kind = iota + 1
	KindBank
	KindEventDescription
	KindEventInstance
	KindBus
	KindVCA
)

// String returns the FMOD name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSystem:
		return "Studio::System"
	case KindBank:
		return "Studio::Bank"
	case KindEventDescription:
		return "Studio::EventDescription"
	case KindEventInstance:
		return "Studio::EventInstance"
	case KindBus:
		return "Studio::Bus"
	case KindVCA:
		return "Studio::VCA"
	default:
		return "unknown"
	}
}

// Handle identifies an engine-resident object. It is a plain value: copyable,
// aliasable, and non-owning. Value is the raw engine address; Context is the
// address of the Studio System the handle was obtained from. Handles are only
// meaningful relative to their context.
type Handle struct {
	Kind    Kind
	Value   uintptr
	Context uintptr
}

// Cleanup releases a payload when its entry is reclaimed. It runs at most once
// per attached payload, outside registry locks. A panicking cleanup is logged
// and does not block entry removal.
type Cleanup func(payload any)

// ErrInvalidHandle is returned when an operation targets a handle the liveness
// probe reports as dead.
var ErrInvalidHandle = errors.New("registry: handle is no longer valid")

// Config carries the registry knobs. The zero value gets sane defaults.
type Config struct {
	// Shards is the number of lock shards. Defaults to 16.
	Shards int

	// SweepEvery is how many TickSweep calls elapse between liveness sweeps
	// of a context. Defaults to 30 (roughly twice a second at 60 updates/s).
	SweepEvery int

	// Probe reports whether a handle still refers to a live engine object.
	// When nil, attach-time validation and sweeping are disabled.
	Probe func(Handle) bool

	// Logf receives diagnostics (panicking cleanups). When nil, discarded.
	Logf func(format string, args ...any)
}

const (
	defaultShards     = 16
	defaultSweepEvery = 30
)

// Registry is a concurrent (kind, value, context) -> payload store. All
// operations are short, non-blocking critical sections guarded by per-shard
// mutexes; operations on the same key are linearizable, operations on
// different keys interleave freely.
type Registry struct {
	probe      func(Handle) bool
	logf       func(string, ...any)
	sweepEvery atomic.Int64
	seq        atomic.Uint64

	tickMu sync.Mutex
	ticks  map[uintptr]uint64

	shards []shard
}

type shard struct {
	mu      sync.Mutex
	entries map[key]*entry
}

// key carries the full identifying tuple: two contexts holding the same
// numeric handle value get independent entries.
type key struct {
	kind  Kind
	value uintptr
	ctx   uintptr
}

// entry holds the payload plus callback metadata for one handle. seq is bumped
// on every payload write so that the sweep can detect a racing re-attach
// before it removes anything.
type entry struct {
	seq        uint64
	payload    any
	cleanup    Cleanup
	hasPayload bool

	// notified entries have a native destruction callback and are skipped
	// by the sweep.
	notified bool

	// handler is caller callback metadata riding on the same key space.
	// It survives payload replacement and is dropped with the entry.
	handler   any
	mask      uint32
	installed bool
}

// New creates a registry from cfg.
func New(cfg Config) *Registry {
	if cfg.Shards <= 0 {
		cfg.Shards = defaultShards
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = defaultSweepEvery
	}
	r := &Registry{
		probe:  cfg.Probe,
		logf:   cfg.Logf,
		ticks:  make(map[uintptr]uint64),
		shards: make([]shard, cfg.Shards),
	}
	for i := range r.shards {
		r.shards[i].entries = make(map[key]*entry)
	}
	r.sweepEvery.Store(int64(cfg.SweepEvery))
	return r
}

// SetSweepEvery adjusts the sweep cadence. Values below 1 are clamped to 1
// (sweep on every tick).
func (r *Registry) SetSweepEvery(n int) {
	if n < 1 {
		n = 1
	}
	r.sweepEvery.Store(int64(n))
}

// shardFor hashes kind and value only, never the context, so that every entry
// for a given handle value lives in one shard. Reclaim is invoked from native
// callbacks that carry no context and must find the entry under a single lock.
func (r *Registry) shardFor(kind Kind, value uintptr) *shard {
	h := uint64(value)
	h ^= uint64(kind) << 56
	// fmix64 from MurmurHash3; handle values are aligned addresses, so the
	// low bits alone shard poorly.
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	return &r.shards[h%uint64(len(r.shards))]
}

// Attach stores payload under h, replacing any prior payload for the same key.
// The prior payload is returned and its cleanup (if any) runs before Attach
// returns. Attaching to a handle the probe reports dead fails with
// ErrInvalidHandle and creates no entry. cleanup may be nil. notified marks
// the entry as reclaimed by a destruction callback rather than the sweep.
func (r *Registry) Attach(h Handle, payload any, cleanup Cleanup, notified bool) (any, error) {
	if r.probe != nil && !r.probe(h) {
		return nil, ErrInvalidHandle
	}

	k := key{h.Kind, h.Value, h.Context}
	s := r.shardFor(h.Kind, h.Value)

	var (
		prev        any
		prevCleanup Cleanup
		replaced    bool
	)
	s.mu.Lock()
	e := s.entries[k]
	if e == nil {
		e = &entry{}
		s.entries[k] = e
	}
	if e.hasPayload {
		prev, prevCleanup, replaced = e.payload, e.cleanup, true
	}
	e.payload = payload
	e.cleanup = cleanup
	e.hasPayload = true
	e.notified = notified
	e.seq = r.seq.Add(1)
	s.mu.Unlock()

	if replaced {
		r.runCleanup(prevCleanup, prev)
	}
	return prev, nil
}

// Fetch returns the payload attached to h. Ownership stays with the registry.
func (r *Registry) Fetch(h Handle) (any, bool) {
	k := key{h.Kind, h.Value, h.Context}
	s := r.shardFor(h.Kind, h.Value)

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[k]
	if e == nil || !e.hasPayload {
		return nil, false
	}
	return e.payload, true
}

// Remove detaches and returns the payload for h without running its cleanup;
// ownership transfers back to the caller. Callback handler metadata on the
// same key is preserved.
func (r *Registry) Remove(h Handle) (any, bool) {
	k := key{h.Kind, h.Value, h.Context}
	s := r.shardFor(h.Kind, h.Value)

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[k]
	if e == nil || !e.hasPayload {
		return nil, false
	}
	payload := e.payload
	e.payload = nil
	e.cleanup = nil
	e.hasPayload = false
	if e.handler == nil && !e.installed {
		delete(s.entries, k)
	}
	return payload, true
}

// SetHandler stores caller callback metadata for h. A nil handler clears it.
// Like Attach, it refuses handles the probe reports dead.
func (r *Registry) SetHandler(h Handle, handler any, mask uint32) error {
	if r.probe != nil && !r.probe(h) {
		return ErrInvalidHandle
	}

	k := key{h.Kind, h.Value, h.Context}
	s := r.shardFor(h.Kind, h.Value)

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[k]
	if e == nil {
		if handler == nil {
			return nil
		}
		e = &entry{seq: r.seq.Add(1)}
		s.entries[k] = e
	}
	e.handler = handler
	e.mask = mask
	if handler == nil && !e.hasPayload && !e.installed {
		delete(s.entries, k)
	}
	return nil
}

// Handler returns the callback handler and mask stored for (kind, value) in
// any context. Native callbacks carry no context, so the lookup scans the one
// shard every context's entry for this value maps to.
func (r *Registry) Handler(kind Kind, value uintptr) (handler any, mask uint32, ctx uintptr, ok bool) {
	s := r.shardFor(kind, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if k.kind == kind && k.value == value && e.handler != nil {
			return e.handler, e.mask, k.ctx, true
		}
	}
	return nil, 0, 0, false
}

// MarkInstalled records that the native destruction callback has been
// installed for h. It reports true exactly once per entry lifetime, so the
// caller installs at most once per handle.
func (r *Registry) MarkInstalled(h Handle) bool {
	k := key{h.Kind, h.Value, h.Context}
	s := r.shardFor(h.Kind, h.Value)

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[k]
	if e == nil {
		e = &entry{seq: r.seq.Add(1)}
		s.entries[k] = e
	}
	if e.installed {
		return false
	}
	e.installed = true
	return true
}

// Reclaim is the destruction-callback path: the engine reported (kind, value)
// is being destroyed. The entry is detached under the shard lock, then the
// payload cleanup runs, then the stored handler is returned so the caller can
// forward the destruction event. Detaching before cleaning keeps cleanup
// exactly-once: an Attach racing the cleanup finds no payload to replace and
// starts a fresh entry, which is left in place. With no entry present Reclaim
// is a no-op passthrough.
func (r *Registry) Reclaim(kind Kind, value uintptr) (handler any, ctx uintptr, reclaimed bool) {
	s := r.shardFor(kind, value)

	s.mu.Lock()
	var (
		k     key
		e     *entry
		found bool
	)
	for ek, ee := range s.entries {
		if ek.kind == kind && ek.value == value {
			k, e, found = ek, ee, true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return nil, 0, false
	}
	handler = e.handler
	ctx = k.ctx
	payload, cleanup, had := e.payload, e.cleanup, e.hasPayload
	delete(s.entries, k)
	s.mu.Unlock()

	if !had {
		return handler, ctx, false
	}
	r.runCleanup(cleanup, payload)
	return handler, ctx, true
}

// Sweep probes every non-notified payload scoped to ctx and reclaims the dead
// ones. It returns the number of payloads reclaimed. Sweep takes no global
// lock: candidates are snapshotted per shard, probed unlocked, and re-checked
// (sequence and liveness) under the shard lock immediately before removal, so
// an entry re-attached mid-sweep is never destroyed.
func (r *Registry) Sweep(ctx uintptr) int {
	if r.probe == nil {
		return 0
	}

	type candidate struct {
		k   key
		seq uint64
	}

	reclaimed := 0
	for i := range r.shards {
		s := &r.shards[i]

		s.mu.Lock()
		var cands []candidate
		for k, e := range s.entries {
			if k.ctx != ctx || e.notified || !e.hasPayload {
				continue
			}
			cands = append(cands, candidate{k, e.seq})
		}
		s.mu.Unlock()

		for _, c := range cands {
			h := Handle{c.k.kind, c.k.value, c.k.ctx}
			if r.probe(h) {
				continue
			}

			s.mu.Lock()
			e, ok := s.entries[c.k]
			if !ok || e.seq != c.seq || r.probe(h) {
				s.mu.Unlock()
				continue
			}
			payload, cleanup := e.payload, e.cleanup
			delete(s.entries, c.k)
			s.mu.Unlock()

			r.runCleanup(cleanup, payload)
			reclaimed++
		}
	}
	return reclaimed
}

// TickSweep amortizes Sweep over the engine update tick: only every
// SweepEvery-th call for a given context actually sweeps. Returns the number
// of payloads reclaimed (0 on skipped ticks).
func (r *Registry) TickSweep(ctx uintptr) int {
	r.tickMu.Lock()
	r.ticks[ctx]++
	n := r.ticks[ctx]
	r.tickMu.Unlock()

	if n%uint64(r.sweepEvery.Load()) != 0 {
		return 0
	}
	return r.Sweep(ctx)
}

// InvalidateContext removes and cleans every entry scoped to ctx,
// unconditionally. Called when the owning system is released; safe to call
// again (the second call finds nothing). Returns the number of payloads
// cleaned.
func (r *Registry) InvalidateContext(ctx uintptr) int {
	type dead struct {
		payload any
		cleanup Cleanup
	}

	count := 0
	for i := range r.shards {
		s := &r.shards[i]

		s.mu.Lock()
		var deads []dead
		for k, e := range s.entries {
			if k.ctx != ctx {
				continue
			}
			if e.hasPayload {
				count++
				deads = append(deads, dead{e.payload, e.cleanup})
			}
			delete(s.entries, k)
		}
		s.mu.Unlock()

		for _, d := range deads {
			r.runCleanup(d.cleanup, d.payload)
		}
	}

	r.tickMu.Lock()
	delete(r.ticks, ctx)
	r.tickMu.Unlock()

	return count
}

// Count returns the number of live entries. Useful for leak tests.
func (r *Registry) Count() int {
	n := 0
	for i := range r.shards {
		s := &r.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// runCleanup runs a payload cleanup outside any registry lock. A broken
// cleanup must not leak the registry slot, so panics are caught and logged.
func (r *Registry) runCleanup(cleanup Cleanup, payload any) {
	if cleanup == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil && r.logf != nil {
			r.logf("fmod: userdata cleanup panicked: %v", rec)
		}
	}()
	cleanup(payload)
}
