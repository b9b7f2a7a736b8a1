//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading the FMOD Studio shared libraries and
// registering function bindings using purego.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ErrNotLoaded is returned when FMOD functions are called before Load().
var ErrNotLoaded = errors.New("fmod: FMOD libraries not loaded; call fmod.Init() first")

// ErrLibraryNotFound is returned when a required FMOD library cannot be found.
var ErrLibraryNotFound = errors.New("fmod: FMOD library not found")

// Library handles
var (
	libFMODStudio uintptr
	libFMOD       uintptr

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// IsLoaded returns true if the FMOD libraries have been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads the FMOD Studio and FMOD core libraries and registers all
// function bindings. It is safe to call multiple times; subsequent calls are
// no-ops.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	var err error

	// fmodstudio links against fmod; opening with RTLD_GLOBAL lets the
	// loader resolve the core library's symbols for it.
	libFMODStudio, err = loadLibrary("fmodstudio")
	if err != nil {
		return fmt.Errorf("loading libfmodstudio: %w", err)
	}

	// The core library may already be mapped as a dependency of fmodstudio;
	// fall back to resolving core symbols through the studio handle.
	libFMOD, err = loadLibrary("fmod")
	if err != nil {
		libFMOD = libFMODStudio
	}

	registerStudio()
	registerCore()
	return nil
}

// loadLibrary attempts to load an FMOD library by trying the plain name and
// the logging-build name (fmodL, fmodstudioL) in each search path.
func loadLibrary(name string) (uintptr, error) {
	candidates := []string{
		formatLibraryName(name),
		formatLibraryName(name + "L"),
	}

	for _, searchPath := range LibrarySearchPaths() {
		for _, libName := range candidates {
			lib, err := tryOpen(filepath.Join(searchPath, libName))
			if err == nil {
				return lib, nil
			}
		}
	}

	// Let the system loader find it.
	for _, libName := range candidates {
		lib, err := tryOpen(libName)
		if err == nil {
			return lib, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen opens a library with RTLD_NOW | RTLD_GLOBAL. RTLD_GLOBAL is required
// so fmodstudio can resolve symbols from the core library.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// FindLibrary searches for an FMOD library and returns its full path.
// Useful for diagnostics.
func FindLibrary(name string) (string, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, libName := range []string{formatLibraryName(name), formatLibraryName(name + "L")} {
			fullPath := filepath.Join(searchPath, libName)
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// formatLibraryName returns the platform-specific library filename.
//
// Examples:
//   - Linux:   formatLibraryName("fmodstudio") -> "libfmodstudio.so"
//   - macOS:   formatLibraryName("fmodstudio") -> "libfmodstudio.dylib"
//   - Windows: formatLibraryName("fmodstudio") -> "fmodstudio.dll"
func formatLibraryName(name string) string {
	switch runtime.GOOS {
	case "darwin":
		return "lib" + name + ".dylib"
	case "windows":
		return name + ".dll"
	default: // linux, freebsd
		return "lib" + name + ".so"
	}
}

// LibrarySearchPaths returns platform-specific library search paths.
// FMOD_LIBRARY_PATH takes precedence everywhere since the FMOD SDK has no
// standard install location.
func LibrarySearchPaths() []string {
	var paths []string

	if fmodPath := os.Getenv("FMOD_LIBRARY_PATH"); fmodPath != "" {
		paths = append(paths, filepath.SplitList(fmodPath)...)
	}

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/opt/homebrew/lib",
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// GoString converts a null-terminated C string to a Go string.
// Returns "" for a nil pointer. Capped at 4096 bytes as a safety limit.
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	ptr := unsafe.Pointer(p)
	for i := 0; i < 4096; i++ {
		b := *(*byte)(unsafe.Pointer(uintptr(ptr) + uintptr(i)))
		if b == 0 {
			return string(unsafe.Slice(p, i))
		}
	}
	return string(unsafe.Slice(p, 4096))
}
