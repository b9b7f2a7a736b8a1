//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"unsafe"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
	"github.com/Speak2Erase/fmod-go/internal/registry"
)

// Bus is a mixer bus routing the signal of the events assigned to it. Plain
// value, copyable; owned by the engine for the lifetime of its bank.
type Bus struct {
	ptr unsafe.Pointer
	sys unsafe.Pointer
}

// IsValid reports whether the bus handle still refers to loaded mixer data.
func (b Bus) IsValid() bool {
	if b.ptr == nil || !bindings.IsLoaded() {
		return false
	}
	return bindings.StudioBusIsValid(b.ptr) != 0
}

// Path returns the bus path, e.g. "bus:/SFX".
func (b Bus) Path() (string, error) {
	return getPath("Studio::Bus::getPath", func(buf *byte, size int32, retrieved *int32) int32 {
		return bindings.StudioBusGetPath(b.ptr, buf, size, retrieved)
	})
}

// SetVolume scales the bus volume. 1 is the authored level.
func (b Bus) SetVolume(volume float32) error {
	return newError(bindings.StudioBusSetVolume(b.ptr, volume), "Studio::Bus::setVolume")
}

// Volume returns the volume scale and the final combined volume.
func (b Bus) Volume() (volume, finalVolume float32, err error) {
	code := bindings.StudioBusGetVolume(b.ptr, &volume, &finalVolume)
	err = newError(code, "Studio::Bus::getVolume")
	return volume, finalVolume, err
}

// SetPaused pauses or resumes every event routed through the bus.
func (b Bus) SetPaused(paused bool) error {
	return newError(bindings.StudioBusSetPaused(b.ptr, boolToInt(paused)), "Studio::Bus::setPaused")
}

// Paused returns the paused state.
func (b Bus) Paused() (bool, error) {
	var paused int32
	code := bindings.StudioBusGetPaused(b.ptr, &paused)
	if err := newError(code, "Studio::Bus::getPaused"); err != nil {
		return false, err
	}
	return paused != 0, nil
}

// SetMute mutes or unmutes the bus.
func (b Bus) SetMute(mute bool) error {
	return newError(bindings.StudioBusSetMute(b.ptr, boolToInt(mute)), "Studio::Bus::setMute")
}

// Mute returns the mute state.
func (b Bus) Mute() (bool, error) {
	var mute int32
	code := bindings.StudioBusGetMute(b.ptr, &mute)
	if err := newError(code, "Studio::Bus::getMute"); err != nil {
		return false, err
	}
	return mute != 0, nil
}

// StopAllEvents stops every event instance routed through the bus.
func (b Bus) StopAllEvents(mode StopMode) error {
	return newError(bindings.StudioBusStopAllEvents(b.ptr, int32(mode)), "Studio::Bus::stopAllEvents")
}

func (b Bus) userdataHandle() registry.Handle {
	return registry.Handle{
		Kind:    registry.KindBus,
		Value:   uintptr(b.ptr),
		Context: uintptr(b.sys),
	}
}
