//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"sync"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
	"github.com/ebitengine/purego"
)

// LogLevel represents engine debug levels.
type LogLevel uint32

// Log level constants matching FMOD_DEBUG_LEVEL_* values.
const (
	LogNone    LogLevel = 0 // Disable all messages
	LogError   LogLevel = 1 // Errors only
	LogWarning LogLevel = 2 // Warnings and errors
	LogInfo    LogLevel = 4 // All messages
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogNone:
		return "none"
	case LogError:
		return "error"
	case LogWarning:
		return "warning"
	case LogInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LogCallback is called for each engine debug message.
// file, line and fn locate the message inside the engine source.
type LogCallback func(level LogLevel, file string, line int32, fn string, message string)

const (
	debugModeTTY      int32 = 0
	debugModeCallback int32 = 2
)

var (
	logCallbackMu sync.Mutex
	logCallback   LogCallback
	logCBHandle   uintptr
)

// SetLogLevel sets the engine debug level and routes messages to stderr.
// This requires the logging build of the engine libraries (the "L" suffixed
// binaries); release builds return ErrUnsupported.
func SetLogLevel(level LogLevel) error {
	if err := bindings.Load(); err != nil {
		return err
	}
	code := bindings.DebugInitialize(uint32(level), debugModeTTY, 0, nil)
	return newError(code, "Debug_Initialize")
}

// SetLogCallback routes engine debug messages at the given level to cb.
// Pass nil to restore the default stderr logging behavior.
// This requires the logging build of the engine libraries; release builds
// return ErrUnsupported.
func SetLogCallback(level LogLevel, cb LogCallback) error {
	if err := bindings.Load(); err != nil {
		return err
	}

	logCallbackMu.Lock()
	defer logCallbackMu.Unlock()

	if cb == nil {
		logCallback = nil
		code := bindings.DebugInitialize(uint32(level), debugModeTTY, 0, nil)
		return newError(code, "Debug_Initialize")
	}

	logCallback = cb

	// Create a purego callback if we haven't yet
	if logCBHandle == 0 {
		logCBHandle = purego.NewCallback(logCallbackTrampoline)
	}

	code := bindings.DebugInitialize(uint32(level), debugModeCallback, logCBHandle, nil)
	return newError(code, "Debug_Initialize")
}

// logCallbackTrampoline is called by the engine and forwards to the Go callback.
// Signature: FMOD_RESULT (*)(FMOD_DEBUG_FLAGS flags, const char *file, int line, const char *func, const char *message)
func logCallbackTrampoline(_ purego.CDecl, flags uint32, file *byte, line int32, fn *byte, message *byte) int32 {
	logCallbackMu.Lock()
	cb := logCallback
	logCallbackMu.Unlock()

	if cb == nil {
		return int32(OK)
	}

	cb(LogLevel(flags), bindings.GoString(file), line, bindings.GoString(fn), bindings.GoString(message))
	return int32(OK)
}

// IsLoggingAvailable reports whether the loaded engine binaries support
// debug logging. Release builds of the engine compile logging out.
func IsLoggingAvailable() bool {
	if err := bindings.Load(); err != nil {
		return false
	}
	code := bindings.DebugInitialize(uint32(LogNone), debugModeTTY, 0, nil)
	return Result(code) == OK
}
