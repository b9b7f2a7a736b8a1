//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"unsafe"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
	"github.com/Speak2Erase/fmod-go/internal/registry"
)

// EventDescription is the blueprint for an event: the authored data every
// EventInstance of that event is created from. Plain value, copyable; owned
// by the engine for the lifetime of the bank that contains it.
type EventDescription struct {
	ptr unsafe.Pointer
	sys unsafe.Pointer
}

// IsValid reports whether the description still refers to loaded event data.
// Descriptions die when their bank is unloaded.
func (d EventDescription) IsValid() bool {
	if d.ptr == nil || !bindings.IsLoaded() {
		return false
	}
	return bindings.StudioEventDescriptionIsValid(d.ptr) != 0
}

// CreateInstance creates a playable instance of the event. Instances must be
// started with EventInstance.Start and released with EventInstance.Release
// when no longer needed.
func (d EventDescription) CreateInstance() (EventInstance, error) {
	var instance unsafe.Pointer
	code := bindings.StudioEventDescriptionCreateInstance(d.ptr, &instance)
	if err := newError(code, "Studio::EventDescription::createInstance"); err != nil {
		return EventInstance{}, err
	}
	return EventInstance{ptr: instance, sys: d.sys}, nil
}

// Path returns the event's path, e.g. "event:/UI/Cancel".
func (d EventDescription) Path() (string, error) {
	return getPath("Studio::EventDescription::getPath", func(buf *byte, size int32, retrieved *int32) int32 {
		return bindings.StudioEventDescriptionGetPath(d.ptr, buf, size, retrieved)
	})
}

// InstanceCount returns the number of live instances of the event.
func (d EventDescription) InstanceCount() (int, error) {
	var count int32
	code := bindings.StudioEventDescriptionGetInstanceCount(d.ptr, &count)
	if err := newError(code, "Studio::EventDescription::getInstanceCount"); err != nil {
		return 0, err
	}
	return int(count), nil
}

// LoadSampleData loads the event's non-streaming sample data ahead of
// instance creation.
func (d EventDescription) LoadSampleData() error {
	return newError(bindings.StudioEventDescriptionLoadSampleData(d.ptr), "Studio::EventDescription::loadSampleData")
}

// UnloadSampleData unloads the event's sample data once playing instances
// have finished with it.
func (d EventDescription) UnloadSampleData() error {
	return newError(bindings.StudioEventDescriptionUnloadSampleData(d.ptr), "Studio::EventDescription::unloadSampleData")
}

// ReleaseAllInstances immediately stops and releases every instance of the
// event.
func (d EventDescription) ReleaseAllInstances() error {
	return newError(bindings.StudioEventDescriptionReleaseAllInstances(d.ptr), "Studio::EventDescription::releaseAllInstances")
}

func (d EventDescription) userdataHandle() registry.Handle {
	return registry.Handle{
		Kind:    registry.KindEventDescription,
		Value:   uintptr(d.ptr),
		Context: uintptr(d.sys),
	}
}
