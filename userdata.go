//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"log"
	"sync"
	"unsafe"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
	"github.com/Speak2Erase/fmod-go/internal/registry"
)

// The userdata registry is shared by every Studio System in the process. It is
// created when the first system is created and dropped when the last one is
// released, so repeated create/release cycles do not accumulate state.
var (
	userdataMu  sync.Mutex
	userdataReg *registry.Registry
	liveSystems int
)

// acquireUserdataRegistry is called by NewSystem.
func acquireUserdataRegistry() *registry.Registry {
	userdataMu.Lock()
	defer userdataMu.Unlock()
	if userdataReg == nil {
		userdataReg = registry.New(registry.Config{
			Probe: probeHandle,
			Logf:  log.Printf,
		})
	}
	liveSystems++
	return userdataReg
}

// releaseUserdataRegistry is called by System.Release after the registry
// entries scoped to the system have been invalidated.
func releaseUserdataRegistry() {
	userdataMu.Lock()
	defer userdataMu.Unlock()
	if liveSystems > 0 {
		liveSystems--
	}
	if liveSystems == 0 {
		userdataReg = nil
	}
}

// currentUserdataRegistry returns the shared registry, or an error if no
// Studio System exists.
func currentUserdataRegistry() (*registry.Registry, error) {
	userdataMu.Lock()
	defer userdataMu.Unlock()
	if userdataReg == nil {
		return nil, NewError(ErrStudioUninitialized, "userdata")
	}
	return userdataReg, nil
}

// probeHandle asks the engine whether a handle still refers to a live object.
// Each kind's IsValid accessor is a cheap read-only query that returns false
// for stale handles instead of faulting.
func probeHandle(h registry.Handle) bool {
	if !bindings.IsLoaded() {
		return false
	}
	ptr := unsafe.Pointer(h.Value) //nolint:govet // engine address round-trip
	switch h.Kind {
	case registry.KindSystem:
		return bindings.StudioSystemIsValid(ptr) != 0
	case registry.KindBank:
		return bindings.StudioBankIsValid(ptr) != 0
	case registry.KindEventDescription:
		return bindings.StudioEventDescriptionIsValid(ptr) != 0
	case registry.KindEventInstance:
		return bindings.StudioEventInstanceIsValid(ptr) != 0
	case registry.KindBus:
		return bindings.StudioBusIsValid(ptr) != 0
	case registry.KindVCA:
		return bindings.StudioVCAIsValid(ptr) != 0
	default:
		return false
	}
}

// attachUserData stores data under h, replacing (and cleaning) any prior
// payload. notified marks kinds whose payload is reclaimed by a destruction
// callback rather than the sweep.
func attachUserData(h registry.Handle, data any, cleanup func(any), notified bool) error {
	reg, err := currentUserdataRegistry()
	if err != nil {
		return err
	}
	_, err = reg.Attach(h, data, cleanup, notified)
	if err == registry.ErrInvalidHandle {
		return NewError(ErrInvalidHandle, "userdata: attach")
	}
	return err
}

func fetchUserData(h registry.Handle) (any, bool) {
	reg, err := currentUserdataRegistry()
	if err != nil {
		return nil, false
	}
	return reg.Fetch(h)
}

func takeUserData(h registry.Handle) (any, bool) {
	reg, err := currentUserdataRegistry()
	if err != nil {
		return nil, false
	}
	return reg.Remove(h)
}

// Userdata accessors per handle kind. EventInstance additionally installs the
// destruction callback; see instance.go.

// SetUserData attaches data to the bank. The previous payload, if any, is
// replaced and its cleanup runs. The payload is reclaimed when the bank is
// unloaded or the owning system is released.
func (b Bank) SetUserData(data any) error {
	return b.SetUserDataWithCleanup(data, nil)
}

// SetUserDataWithCleanup attaches data with a cleanup function that runs
// exactly once when the payload is reclaimed or replaced.
func (b Bank) SetUserDataWithCleanup(data any, cleanup func(any)) error {
	return attachUserData(b.userdataHandle(), data, cleanup, true)
}

// UserData returns the payload attached to the bank.
func (b Bank) UserData() (any, bool) {
	return fetchUserData(b.userdataHandle())
}

// TakeUserData removes and returns the payload without running its cleanup.
// Ownership transfers back to the caller.
func (b Bank) TakeUserData() (any, bool) {
	return takeUserData(b.userdataHandle())
}

// SetUserData attaches data to the event description. Descriptions have no
// destruction callback: the payload is reclaimed by the liveness sweep after
// the description dies, or at system release.
func (d EventDescription) SetUserData(data any) error {
	return d.SetUserDataWithCleanup(data, nil)
}

// SetUserDataWithCleanup attaches data with a cleanup function that runs
// exactly once when the payload is reclaimed or replaced.
func (d EventDescription) SetUserDataWithCleanup(data any, cleanup func(any)) error {
	return attachUserData(d.userdataHandle(), data, cleanup, false)
}

// UserData returns the payload attached to the event description.
func (d EventDescription) UserData() (any, bool) {
	return fetchUserData(d.userdataHandle())
}

// TakeUserData removes and returns the payload without running its cleanup.
func (d EventDescription) TakeUserData() (any, bool) {
	return takeUserData(d.userdataHandle())
}

// SetUserData attaches data to the bus. Buses have no destruction callback:
// the payload is reclaimed by the liveness sweep or at system release.
func (b Bus) SetUserData(data any) error {
	return b.SetUserDataWithCleanup(data, nil)
}

// SetUserDataWithCleanup attaches data with a cleanup function that runs
// exactly once when the payload is reclaimed or replaced.
func (b Bus) SetUserDataWithCleanup(data any, cleanup func(any)) error {
	return attachUserData(b.userdataHandle(), data, cleanup, false)
}

// UserData returns the payload attached to the bus.
func (b Bus) UserData() (any, bool) {
	return fetchUserData(b.userdataHandle())
}

// TakeUserData removes and returns the payload without running its cleanup.
func (b Bus) TakeUserData() (any, bool) {
	return takeUserData(b.userdataHandle())
}

// SetUserData attaches data to the VCA. VCAs have no destruction callback:
// the payload is reclaimed by the liveness sweep or at system release.
func (v VCA) SetUserData(data any) error {
	return v.SetUserDataWithCleanup(data, nil)
}

// SetUserDataWithCleanup attaches data with a cleanup function that runs
// exactly once when the payload is reclaimed or replaced.
func (v VCA) SetUserDataWithCleanup(data any, cleanup func(any)) error {
	return attachUserData(v.userdataHandle(), data, cleanup, false)
}

// UserData returns the payload attached to the VCA.
func (v VCA) UserData() (any, bool) {
	return fetchUserData(v.userdataHandle())
}

// TakeUserData removes and returns the payload without running its cleanup.
func (v VCA) TakeUserData() (any, bool) {
	return takeUserData(v.userdataHandle())
}

// SetUserData attaches data to the system itself. Reclaimed at Release.
func (s System) SetUserData(data any) error {
	return s.SetUserDataWithCleanup(data, nil)
}

// SetUserDataWithCleanup attaches data with a cleanup function that runs
// exactly once when the payload is reclaimed or replaced.
func (s System) SetUserDataWithCleanup(data any, cleanup func(any)) error {
	return attachUserData(s.userdataHandle(), data, cleanup, true)
}

// UserData returns the payload attached to the system.
func (s System) UserData() (any, bool) {
	return fetchUserData(s.userdataHandle())
}

// TakeUserData removes and returns the payload without running its cleanup.
func (s System) TakeUserData() (any, bool) {
	return takeUserData(s.userdataHandle())
}
