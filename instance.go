//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"unsafe"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
	"github.com/Speak2Erase/fmod-go/internal/registry"
)

// EventInstance is a playable instance of an event. Plain value, copyable;
// the engine owns the instance until Release (the instance is destroyed once
// it stops) or until the owning System is released.
type EventInstance struct {
	ptr unsafe.Pointer
	sys unsafe.Pointer
}

// IsValid reports whether the instance handle still refers to a live
// instance.
func (e EventInstance) IsValid() bool {
	if e.ptr == nil || !bindings.IsLoaded() {
		return false
	}
	return bindings.StudioEventInstanceIsValid(e.ptr) != 0
}

// Start begins playback. Calling Start on a playing instance restarts it.
func (e EventInstance) Start() error {
	return newError(bindings.StudioEventInstanceStart(e.ptr), "Studio::EventInstance::start")
}

// Stop stops playback with the given mode.
func (e EventInstance) Stop(mode StopMode) error {
	return newError(bindings.StudioEventInstanceStop(e.ptr, int32(mode)), "Studio::EventInstance::stop")
}

// Release marks the instance for destruction once it has stopped. The handle
// stays usable until then; attached userdata is reclaimed through the
// instance's destruction callback when the engine actually destroys it.
func (e EventInstance) Release() error {
	return newError(bindings.StudioEventInstanceRelease(e.ptr), "Studio::EventInstance::release")
}

// SetPaused pauses or resumes playback.
func (e EventInstance) SetPaused(paused bool) error {
	return newError(bindings.StudioEventInstanceSetPaused(e.ptr, boolToInt(paused)), "Studio::EventInstance::setPaused")
}

// Paused returns the paused state.
func (e EventInstance) Paused() (bool, error) {
	var paused int32
	code := bindings.StudioEventInstanceGetPaused(e.ptr, &paused)
	if err := newError(code, "Studio::EventInstance::getPaused"); err != nil {
		return false, err
	}
	return paused != 0, nil
}

// SetVolume scales the instance volume. 1 is the authored level.
func (e EventInstance) SetVolume(volume float32) error {
	return newError(bindings.StudioEventInstanceSetVolume(e.ptr, volume), "Studio::EventInstance::setVolume")
}

// Volume returns the volume scale and the final combined volume.
func (e EventInstance) Volume() (volume, finalVolume float32, err error) {
	code := bindings.StudioEventInstanceGetVolume(e.ptr, &volume, &finalVolume)
	err = newError(code, "Studio::EventInstance::getVolume")
	return volume, finalVolume, err
}

// SetPitch scales playback pitch. 1 is the authored pitch.
func (e EventInstance) SetPitch(pitch float32) error {
	return newError(bindings.StudioEventInstanceSetPitch(e.ptr, pitch), "Studio::EventInstance::setPitch")
}

// Pitch returns the pitch scale and the final combined pitch.
func (e EventInstance) Pitch() (pitch, finalPitch float32, err error) {
	code := bindings.StudioEventInstanceGetPitch(e.ptr, &pitch, &finalPitch)
	err = newError(code, "Studio::EventInstance::getPitch")
	return pitch, finalPitch, err
}

// PlaybackState returns the instance's playback state.
func (e EventInstance) PlaybackState() (PlaybackState, error) {
	var state int32
	code := bindings.StudioEventInstanceGetPlaybackState(e.ptr, &state)
	if err := newError(code, "Studio::EventInstance::getPlaybackState"); err != nil {
		return PlaybackStopped, err
	}
	return PlaybackState(state), nil
}

// SetParameter sets an event parameter by name. With ignoreSeekSpeed the
// value is applied immediately, bypassing the parameter's seek speed.
func (e EventInstance) SetParameter(name string, value float32, ignoreSeekSpeed bool) error {
	code := bindings.StudioEventInstanceSetParameterByName(e.ptr, name, value, boolToInt(ignoreSeekSpeed))
	return newError(code, "Studio::EventInstance::setParameterByName")
}

// Parameter returns a parameter's set value and its final (possibly still
// seeking) value.
func (e EventInstance) Parameter(name string) (value, finalValue float32, err error) {
	code := bindings.StudioEventInstanceGetParameterByName(e.ptr, name, &value, &finalValue)
	err = newError(code, "Studio::EventInstance::getParameterByName")
	return value, finalValue, err
}

// SetTimelinePosition seeks the event timeline, in milliseconds.
func (e EventInstance) SetTimelinePosition(ms int) error {
	return newError(bindings.StudioEventInstanceSetTimelinePosition(e.ptr, int32(ms)), "Studio::EventInstance::setTimelinePosition")
}

// TimelinePosition returns the timeline playback position, in milliseconds.
func (e EventInstance) TimelinePosition() (int, error) {
	var pos int32
	code := bindings.StudioEventInstanceGetTimelinePosition(e.ptr, &pos)
	if err := newError(code, "Studio::EventInstance::getTimelinePosition"); err != nil {
		return 0, err
	}
	return int(pos), nil
}

// Description returns the EventDescription the instance was created from.
func (e EventInstance) Description() (EventDescription, error) {
	var desc unsafe.Pointer
	code := bindings.StudioEventInstanceGetDescription(e.ptr, &desc)
	if err := newError(code, "Studio::EventInstance::getDescription"); err != nil {
		return EventDescription{}, err
	}
	return EventDescription{ptr: desc, sys: e.sys}, nil
}

// SetUserData attaches data to the instance. The previous payload, if any, is
// replaced and its cleanup runs. The payload is reclaimed when the engine
// destroys the instance (via its destruction callback) or when the owning
// system is released.
func (e EventInstance) SetUserData(data any) error {
	return e.SetUserDataWithCleanup(data, nil)
}

// SetUserDataWithCleanup attaches data with a cleanup function that runs
// exactly once when the payload is reclaimed or replaced.
func (e EventInstance) SetUserDataWithCleanup(data any, cleanup func(any)) error {
	reg, err := currentUserdataRegistry()
	if err != nil {
		return err
	}
	h := e.userdataHandle()
	if _, err := reg.Attach(h, data, cleanup, true); err != nil {
		if err == registry.ErrInvalidHandle {
			return NewError(ErrInvalidHandle, "userdata: attach")
		}
		return err
	}
	// Destruction notification: install the event trampoline once per
	// instance so the registry hears about the instance dying even when the
	// caller never sets a callback of their own.
	if reg.MarkInstalled(h) {
		if _, mask, _, ok := reg.Handler(registry.KindEventInstance, h.Value); ok {
			return e.installCallback(EventCallbackMask(mask))
		}
		return e.installCallback(0)
	}
	return nil
}

// UserData returns the payload attached to the instance.
func (e EventInstance) UserData() (any, bool) {
	return fetchUserData(e.userdataHandle())
}

// TakeUserData removes and returns the payload without running its cleanup.
// Ownership transfers back to the caller.
func (e EventInstance) TakeUserData() (any, bool) {
	return takeUserData(e.userdataHandle())
}

func (e EventInstance) userdataHandle() registry.Handle {
	return registry.Handle{
		Kind:    registry.KindEventInstance,
		Value:   uintptr(e.ptr),
		Context: uintptr(e.sys),
	}
}
