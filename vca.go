//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"unsafe"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
	"github.com/Speak2Erase/fmod-go/internal/registry"
)

// VCA is a voltage control amplifier: a volume control applied across the
// buses assigned to it. Plain value, copyable; owned by the engine for the
// lifetime of its bank.
type VCA struct {
	ptr unsafe.Pointer
	sys unsafe.Pointer
}

// IsValid reports whether the VCA handle still refers to loaded mixer data.
func (v VCA) IsValid() bool {
	if v.ptr == nil || !bindings.IsLoaded() {
		return false
	}
	return bindings.StudioVCAIsValid(v.ptr) != 0
}

// Path returns the VCA path, e.g. "vca:/Music".
func (v VCA) Path() (string, error) {
	return getPath("Studio::VCA::getPath", func(buf *byte, size int32, retrieved *int32) int32 {
		return bindings.StudioVCAGetPath(v.ptr, buf, size, retrieved)
	})
}

// SetVolume scales the VCA volume. 1 is the authored level.
func (v VCA) SetVolume(volume float32) error {
	return newError(bindings.StudioVCASetVolume(v.ptr, volume), "Studio::VCA::setVolume")
}

// Volume returns the volume scale and the final combined volume.
func (v VCA) Volume() (volume, finalVolume float32, err error) {
	code := bindings.StudioVCAGetVolume(v.ptr, &volume, &finalVolume)
	err = newError(code, "Studio::VCA::getVolume")
	return volume, finalVolume, err
}

func (v VCA) userdataHandle() registry.Handle {
	return registry.Handle{
		Kind:    registry.KindVCA,
		Value:   uintptr(v.ptr),
		Context: uintptr(v.sys),
	}
}
