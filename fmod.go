//go:build !ios && !android && (amd64 || arm64)

// Package fmod provides Go bindings to the FMOD Studio sound engine without
// CGO, using purego. The native libraries are loaded at runtime; see
// internal/bindings for the search paths (FMOD_LIBRARY_PATH overrides them).
//
// Handles returned by this package (System, Bank, EventDescription,
// EventInstance, Bus, VCA) are plain values wrapping engine-owned objects.
// They are copyable and aliasable; the engine owns the underlying resource
// until it is released or the owning System is torn down.
//
// # Userdata
//
// Arbitrary Go values can be attached to most handle kinds with SetUserData
// and retrieved with UserData. The binding layer tracks the attached values in
// a registry keyed by handle and owning System, and reclaims them when the
// engine destroys the underlying object:
//
//   - EventInstance and Bank payloads are reclaimed promptly, through the
//     engine's destruction callbacks.
//   - EventDescription, Bus and VCA payloads have no destruction callback;
//     they are reclaimed by a liveness sweep piggybacked on System.Update,
//     bounded by the sweep interval (see System.SetSweepInterval), not
//     immediate.
//   - Releasing a System reclaims every payload attached under it, whatever
//     the kind. This is the backstop for all of the above.
//
// A cleanup function supplied via SetUserDataWithCleanup runs exactly once
// when the payload is reclaimed or replaced; TakeUserData removes a payload
// without running its cleanup.
package fmod

import (
	"github.com/Speak2Erase/fmod-go/internal/bindings"
)

// HeaderVersion is the FMOD API version these bindings were written against
// (2.02.22). Passed to FMOD_Studio_System_Create for the runtime's version
// check.
const HeaderVersion uint32 = 0x00020216

// Init loads the FMOD libraries. It is called automatically by NewSystem but
// can be called explicitly to check for errors up front. Safe to call
// multiple times.
func Init() error {
	return bindings.Load()
}

// IsLoaded returns true if the FMOD libraries have been successfully loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// InitFlags configure the FMOD core system at initialization.
type InitFlags uint32

// Core initialization flags (FMOD_INIT_*).
const (
	InitNormal             InitFlags = 0x00000000
	InitStreamFromUpdate   InitFlags = 0x00000001
	InitMixFromUpdate      InitFlags = 0x00000002
	Init3DRighthanded      InitFlags = 0x00000004
	InitChannelLowpass     InitFlags = 0x00000100
	InitProfileEnable      InitFlags = 0x00010000
	InitVol0BecomesVirtual InitFlags = 0x00020000
)

// StudioInitFlags configure the FMOD Studio system at initialization.
type StudioInitFlags uint32

// Studio initialization flags (FMOD_STUDIO_INIT_*).
const (
	StudioInitNormal              StudioInitFlags = 0x00000000
	StudioInitLiveUpdate          StudioInitFlags = 0x00000001
	StudioInitAllowMissingPlugins StudioInitFlags = 0x00000002
	StudioInitSynchronousUpdate   StudioInitFlags = 0x00000004
	StudioInitDeferredCallbacks   StudioInitFlags = 0x00000008
	StudioInitLoadFromUpdate      StudioInitFlags = 0x00000010
	StudioInitMemoryTracking      StudioInitFlags = 0x00000020
)

// LoadBankFlags control bank loading.
type LoadBankFlags uint32

// Bank loading flags (FMOD_STUDIO_LOAD_BANK_*).
const (
	LoadBankNormal            LoadBankFlags = 0x00000000
	LoadBankNonblocking       LoadBankFlags = 0x00000001
	LoadBankDecompressSamples LoadBankFlags = 0x00000002
	LoadBankUnencrypted       LoadBankFlags = 0x00000004
)

// StopMode controls how playback stops.
type StopMode int32

// Stop modes (FMOD_STUDIO_STOP_*).
const (
	StopAllowFadeout StopMode = 0
	StopImmediate    StopMode = 1
)

// PlaybackState is the playback state of an event instance.
type PlaybackState int32

// Playback states (FMOD_STUDIO_PLAYBACK_*).
const (
	PlaybackPlaying    PlaybackState = 0
	PlaybackSustaining PlaybackState = 1
	PlaybackStopped    PlaybackState = 2
	PlaybackStarting   PlaybackState = 3
	PlaybackStopping   PlaybackState = 4
)

// String returns the playback state name.
func (s PlaybackState) String() string {
	switch s {
	case PlaybackPlaying:
		return "playing"
	case PlaybackSustaining:
		return "sustaining"
	case PlaybackStopped:
		return "stopped"
	case PlaybackStarting:
		return "starting"
	case PlaybackStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// LoadingState is the loading state of a bank or sample data.
type LoadingState int32

// Loading states (FMOD_STUDIO_LOADING_STATE_*).
const (
	LoadingStateUnloading LoadingState = 0
	LoadingStateUnloaded  LoadingState = 1
	LoadingStateLoading   LoadingState = 2
	LoadingStateLoaded    LoadingState = 3
	LoadingStateError     LoadingState = 4
)

// String returns the loading state name.
func (s LoadingState) String() string {
	switch s {
	case LoadingStateUnloading:
		return "unloading"
	case LoadingStateUnloaded:
		return "unloaded"
	case LoadingStateLoading:
		return "loading"
	case LoadingStateLoaded:
		return "loaded"
	case LoadingStateError:
		return "error"
	default:
		return "unknown"
	}
}

// getPath reads a path string through FMOD's retrieve-with-buffer convention,
// growing the buffer once if the first attempt is truncated.
func getPath(op string, get func(buf *byte, size int32, retrieved *int32) int32) (string, error) {
	buf := make([]byte, 256)
	var retrieved int32
	code := get(&buf[0], int32(len(buf)), &retrieved)
	if Result(code) == ErrTruncated && retrieved > 0 {
		buf = make([]byte, retrieved)
		code = get(&buf[0], int32(len(buf)), &retrieved)
	}
	if err := newError(code, op); err != nil {
		return "", err
	}
	if retrieved > 0 {
		// retrieved includes the null terminator.
		return string(buf[:retrieved-1]), nil
	}
	return "", nil
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
