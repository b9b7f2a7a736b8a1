//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"unsafe"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
	"github.com/Speak2Erase/fmod-go/internal/registry"
)

// Bank is a loaded FMOD Studio bank: a container of event metadata and sample
// data. Plain value, copyable; the engine owns the bank until it is unloaded
// or the owning System is released.
type Bank struct {
	ptr unsafe.Pointer
	sys unsafe.Pointer
}

// IsValid reports whether the bank handle still refers to a loaded bank.
func (b Bank) IsValid() bool {
	if b.ptr == nil || !bindings.IsLoaded() {
		return false
	}
	return bindings.StudioBankIsValid(b.ptr) != 0
}

// Path returns the bank's path, e.g. "bank:/Vehicles".
func (b Bank) Path() (string, error) {
	return getPath("Studio::Bank::getPath", func(buf *byte, size int32, retrieved *int32) int32 {
		return bindings.StudioBankGetPath(b.ptr, buf, size, retrieved)
	})
}

// Unload unloads the bank. All event descriptions and instances created from
// it are destroyed; any userdata attached to the bank is reclaimed through
// the system's bank-unload callback.
func (b Bank) Unload() error {
	return newError(bindings.StudioBankUnload(b.ptr), "Studio::Bank::unload")
}

// LoadSampleData loads non-streaming sample data for every event in the bank.
func (b Bank) LoadSampleData() error {
	return newError(bindings.StudioBankLoadSampleData(b.ptr), "Studio::Bank::loadSampleData")
}

// UnloadSampleData unloads sample data not required by playing instances.
func (b Bank) UnloadSampleData() error {
	return newError(bindings.StudioBankUnloadSampleData(b.ptr), "Studio::Bank::unloadSampleData")
}

// LoadingState returns the bank's loading state. Relevant for banks loaded
// with LoadBankNonblocking.
func (b Bank) LoadingState() (LoadingState, error) {
	var state int32
	code := bindings.StudioBankGetLoadingState(b.ptr, &state)
	if err := newError(code, "Studio::Bank::getLoadingState"); err != nil {
		return LoadingStateError, err
	}
	return LoadingState(state), nil
}

// EventCount returns the number of event descriptions in the bank.
func (b Bank) EventCount() (int, error) {
	var count int32
	code := bindings.StudioBankGetEventCount(b.ptr, &count)
	if err := newError(code, "Studio::Bank::getEventCount"); err != nil {
		return 0, err
	}
	return int(count), nil
}

func (b Bank) userdataHandle() registry.Handle {
	return registry.Handle{
		Kind:    registry.KindBank,
		Value:   uintptr(b.ptr),
		Context: uintptr(b.sys),
	}
}
