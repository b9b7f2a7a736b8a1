//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"errors"
	"fmt"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
)

// Result is a raw FMOD_RESULT code.
type Result int32

// FMOD_RESULT values, in header order.
const (
	OK Result = iota
	ErrBadCommand
	ErrChannelAlloc
	ErrChannelStolen
	ErrDMA
	ErrDSPConnection
	ErrDSPDontProcess
	ErrDSPFormat
	ErrDSPInUse
	ErrDSPNotFound
	ErrDSPReserved
	ErrDSPSilence
	ErrDSPType
	ErrFileBad
	ErrFileCouldNotSeek
	ErrFileDiskEjected
	ErrFileEOF
	ErrFileEndOfData
	ErrFileNotFound
	ErrFormat
	ErrHeaderMismatch
	ErrHTTP
	ErrHTTPAccess
	ErrHTTPProxyAuth
	ErrHTTPServerError
	ErrHTTPTimeout
	ErrInitialization
	ErrInitialized
	ErrInternal
	ErrInvalidFloat
	ErrInvalidHandle
	ErrInvalidParam
	ErrInvalidPosition
	ErrInvalidSpeaker
	ErrInvalidSyncPoint
	ErrInvalidThread
	ErrInvalidVector
	ErrMaxAudible
	ErrMemory
	ErrMemoryCantPoint
	ErrNeeds3D
	ErrNeedsHardware
	ErrNetConnect
	ErrNetSocketError
	ErrNetURL
	ErrNetWouldBlock
	ErrNotReady
	ErrOutputAllocated
	ErrOutputCreateBuffer
	ErrOutputDriverCall
	ErrOutputFormat
	ErrOutputInit
	ErrOutputNoDrivers
	ErrPlugin
	ErrPluginMissing
	ErrPluginResource
	ErrPluginVersion
	ErrRecord
	ErrReverbChannelGroup
	ErrReverbInstance
	ErrSubsounds
	ErrSubsoundAllocated
	ErrSubsoundCantMove
	ErrTagNotFound
	ErrTooManyChannels
	ErrTruncated
	ErrUnimplemented
	ErrUninitialized
	ErrUnsupported
	ErrVersion
	ErrEventAlreadyLoaded
	ErrEventLiveUpdateBusy
	ErrEventLiveUpdateMismatch
	ErrEventLiveUpdateTimeout
	ErrEventNotFound
	ErrStudioUninitialized
	ErrStudioNotLoaded
	ErrInvalidString
	ErrAlreadyLocked
	ErrNotLocked
	ErrRecordDisconnected
	ErrTooManySamples
)

// ErrNotLoaded indicates the FMOD libraries are not loaded.
var ErrNotLoaded = bindings.ErrNotLoaded

// Error is an error from an FMOD operation. It carries the raw FMOD_RESULT
// code and the operation that failed.
type Error struct {
	Code Result // Raw FMOD_RESULT code
	Op   string // Operation that failed, e.g. "Studio::EventInstance::start"
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("fmod %s: %s (code %d)", e.Op, e.Code.String(), int32(e.Code))
}

// NewError creates an Error from a raw result code. Returns nil if code is
// FMOD_OK.
func NewError(code Result, op string) error {
	if code == OK {
		return nil
	}
	return &Error{Code: code, Op: op}
}

// newError wraps a raw int32 result from the bindings layer.
func newError(code int32, op string) error {
	return NewError(Result(code), op)
}

// IsInvalidHandle returns true if the error indicates a stale or dead engine
// handle. Handles go stale when their object is destroyed or when the owning
// Studio System is released.
func IsInvalidHandle(err error) bool {
	var fmodErr *Error
	if errors.As(err, &fmodErr) {
		return fmodErr.Code == ErrInvalidHandle
	}
	return false
}

// IsNotFound returns true if the error indicates a missing event, parameter,
// bus or VCA.
func IsNotFound(err error) bool {
	var fmodErr *Error
	if errors.As(err, &fmodErr) {
		return fmodErr.Code == ErrEventNotFound
	}
	return false
}

// ErrorCode returns the FMOD result code from an error, or OK if err is not
// an FMOD error.
func ErrorCode(err error) Result {
	var fmodErr *Error
	if errors.As(err, &fmodErr) {
		return fmodErr.Code
	}
	return OK
}

// String returns the FMOD documentation string for the result code.
func (r Result) String() string {
	switch r {
	case OK:
		return "No errors."
	case ErrBadCommand:
		return "Tried to call a function on a data type that does not allow this type of functionality."
	case ErrChannelAlloc:
		return "Error trying to allocate a channel."
	case ErrChannelStolen:
		return "The specified channel has been reused to play another sound."
	case ErrDMA:
		return "DMA Failure. See debug output for more information."
	case ErrDSPConnection:
		return "DSP connection error. Connection possibly caused a cyclic dependency or connected dsps with incompatible buffer counts."
	case ErrDSPDontProcess:
		return "DSP return code from a DSP process query callback. Tells mixer not to call the process callback and therefore not consume CPU."
	case ErrDSPFormat:
		return "DSP Format error. A DSP unit may have attempted to connect to this network with the wrong format."
	case ErrDSPInUse:
		return "DSP is already in the mixer's DSP network. It must be removed before being reinserted or released."
	case ErrDSPNotFound:
		return "DSP connection error. Couldn't find the DSP unit specified."
	case ErrDSPReserved:
		return "DSP operation error. Cannot perform operation on this DSP as it is reserved by the system."
	case ErrDSPSilence:
		return "DSP return code from a DSP process query callback. Tells mixer silence would be produced from read, so go idle and not consume CPU."
	case ErrDSPType:
		return "DSP operation cannot be performed on a DSP of this type."
	case ErrFileBad:
		return "Error loading file."
	case ErrFileCouldNotSeek:
		return "Couldn't perform seek operation. This is a limitation of the medium or the file format."
	case ErrFileDiskEjected:
		return "Media was ejected while reading."
	case ErrFileEOF:
		return "End of file unexpectedly reached while trying to read essential data (truncated?)."
	case ErrFileEndOfData:
		return "End of current chunk reached while trying to read data."
	case ErrFileNotFound:
		return "File not found."
	case ErrFormat:
		return "Unsupported file or audio format."
	case ErrHeaderMismatch:
		return "There is a version mismatch between the FMOD header and either the FMOD Studio library or the FMOD Low Level library."
	case ErrHTTP:
		return "A HTTP error occurred. This is a catch-all for HTTP errors not listed elsewhere."
	case ErrHTTPAccess:
		return "The specified resource requires authentication or is forbidden."
	case ErrHTTPProxyAuth:
		return "Proxy authentication is required to access the specified resource."
	case ErrHTTPServerError:
		return "A HTTP server error occurred."
	case ErrHTTPTimeout:
		return "The HTTP request timed out."
	case ErrInitialization:
		return "FMOD was not initialized correctly to support this function."
	case ErrInitialized:
		return "Cannot call this command after System::init."
	case ErrInternal:
		return "An error occurred in the FMOD system. Use the logging version of FMOD for more information."
	case ErrInvalidFloat:
		return "Value passed in was a NaN, Inf or denormalized float."
	case ErrInvalidHandle:
		return "An invalid object handle was used."
	case ErrInvalidParam:
		return "An invalid parameter was passed to this function."
	case ErrInvalidPosition:
		return "An invalid seek position was passed to this function."
	case ErrInvalidSpeaker:
		return "An invalid speaker was passed to this function based on the current speaker mode."
	case ErrInvalidSyncPoint:
		return "The syncpoint did not come from this sound handle."
	case ErrInvalidThread:
		return "Tried to call a function on a thread that is not supported."
	case ErrInvalidVector:
		return "The vectors passed in are not unit length, or perpendicular."
	case ErrMaxAudible:
		return "Reached maximum audible playback count for this sound's soundgroup."
	case ErrMemory:
		return "Not enough memory or resources."
	case ErrMemoryCantPoint:
		return "Can't use FMOD_OPENMEMORY_POINT on non PCM source data, or non mp3/xma/adpcm data if FMOD_CREATECOMPRESSEDSAMPLE was used."
	case ErrNeeds3D:
		return "Tried to call a command on a 2d sound when the command was meant for 3d sound."
	case ErrNeedsHardware:
		return "Tried to use a feature that requires hardware support."
	case ErrNetConnect:
		return "Couldn't connect to the specified host."
	case ErrNetSocketError:
		return "A socket error occurred. This is a catch-all for socket-related errors not listed elsewhere."
	case ErrNetURL:
		return "The specified URL couldn't be resolved."
	case ErrNetWouldBlock:
		return "Operation on a non-blocking socket could not complete immediately."
	case ErrNotReady:
		return "Operation could not be performed because specified sound/DSP connection is not ready."
	case ErrOutputAllocated:
		return "Error initializing output device, but more specifically, the output device is already in use and cannot be reused."
	case ErrOutputCreateBuffer:
		return "Error creating hardware sound buffer."
	case ErrOutputDriverCall:
		return "A call to a standard soundcard driver failed, which could possibly mean a bug in the driver or resources were missing or exhausted."
	case ErrOutputFormat:
		return "Soundcard does not support the specified format."
	case ErrOutputInit:
		return "Error initializing output device."
	case ErrOutputNoDrivers:
		return "The output device has no drivers installed."
	case ErrPlugin:
		return "An unspecified error has been returned from a plugin."
	case ErrPluginMissing:
		return "A requested output, dsp unit type or codec was not available."
	case ErrPluginResource:
		return "A resource that the plugin requires cannot be allocated or found."
	case ErrPluginVersion:
		return "A plugin was built with an unsupported SDK version."
	case ErrRecord:
		return "An error occurred trying to initialize the recording device."
	case ErrReverbChannelGroup:
		return "Reverb properties cannot be set on this channel because a parent channelgroup owns the reverb connection."
	case ErrReverbInstance:
		return "Specified instance in FMOD_REVERB_PROPERTIES couldn't be set."
	case ErrSubsounds:
		return "The error occurred because the sound referenced contains subsounds when it shouldn't have, or it doesn't contain subsounds when it should have."
	case ErrSubsoundAllocated:
		return "This subsound is already being used by another sound, you cannot have more than one parent to a sound."
	case ErrSubsoundCantMove:
		return "Shared subsounds cannot be replaced or moved from their parent stream, such as when the parent stream is an FSB file."
	case ErrTagNotFound:
		return "The specified tag could not be found or there are no tags."
	case ErrTooManyChannels:
		return "The sound created exceeds the allowable input channel count."
	case ErrTruncated:
		return "The retrieved string is too long to fit in the supplied buffer and has been truncated."
	case ErrUnimplemented:
		return "Something in FMOD hasn't been implemented when it should be. Contact support."
	case ErrUninitialized:
		return "This command failed because System::init or System::setDriver was not called."
	case ErrUnsupported:
		return "A command issued was not supported by this object. Possibly a plugin without certain callbacks specified."
	case ErrVersion:
		return "The version number of this file format is not supported."
	case ErrEventAlreadyLoaded:
		return "The specified bank has already been loaded."
	case ErrEventLiveUpdateBusy:
		return "The live update connection failed due to the game already being connected."
	case ErrEventLiveUpdateMismatch:
		return "The live update connection failed due to the game data being out of sync with the tool."
	case ErrEventLiveUpdateTimeout:
		return "The live update connection timed out."
	case ErrEventNotFound:
		return "The requested event, parameter, bus or vca could not be found."
	case ErrStudioUninitialized:
		return "The Studio::System object is not yet initialized."
	case ErrStudioNotLoaded:
		return "The specified resource is not loaded, so it can't be unloaded."
	case ErrInvalidString:
		return "An invalid string was passed to this function."
	case ErrAlreadyLocked:
		return "The specified resource is already locked."
	case ErrNotLocked:
		return "The specified resource is not locked, so it can't be unlocked."
	case ErrRecordDisconnected:
		return "The specified recording driver has been disconnected."
	case ErrTooManySamples:
		return "The length provided exceeds the allowable limit."
	default:
		return "Unknown error."
	}
}
