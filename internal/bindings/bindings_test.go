//go:build !ios && !android && (amd64 || arm64)

package bindings

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFormatLibraryName(t *testing.T) {
	name := formatLibraryName("fmodstudio")
	switch runtime.GOOS {
	case "darwin":
		if name != "libfmodstudio.dylib" {
			t.Errorf("formatLibraryName = %q", name)
		}
	case "windows":
		if name != "fmodstudio.dll" {
			t.Errorf("formatLibraryName = %q", name)
		}
	default:
		if name != "libfmodstudio.so" {
			t.Errorf("formatLibraryName = %q", name)
		}
	}
}

func TestLibrarySearchPathsOverride(t *testing.T) {
	dirs := filepath.Join("opt", "fmod", "lib") + string(filepath.ListSeparator) + filepath.Join("opt", "fmod", "core")
	t.Setenv("FMOD_LIBRARY_PATH", dirs)

	paths := LibrarySearchPaths()
	if len(paths) < 2 {
		t.Fatalf("LibrarySearchPaths returned %d paths, want at least 2", len(paths))
	}
	if paths[0] != filepath.Join("opt", "fmod", "lib") {
		t.Errorf("FMOD_LIBRARY_PATH should come first, got %q", paths[0])
	}
	if paths[1] != filepath.Join("opt", "fmod", "core") {
		t.Errorf("second override path = %q", paths[1])
	}
}

func TestLibrarySearchPathsDefault(t *testing.T) {
	t.Setenv("FMOD_LIBRARY_PATH", "")

	paths := LibrarySearchPaths()
	if runtime.GOOS == "linux" {
		found := false
		for _, p := range paths {
			if p == "/usr/local/lib" {
				found = true
			}
		}
		if !found {
			t.Errorf("default linux paths missing /usr/local/lib: %v", paths)
		}
	}
}

func TestGoString(t *testing.T) {
	if got := GoString(nil); got != "" {
		t.Errorf("GoString(nil) = %q, want empty", got)
	}

	buf := []byte("event:/UI/Cancel\x00trailing garbage")
	if got := GoString(&buf[0]); got != "event:/UI/Cancel" {
		t.Errorf("GoString = %q, want %q", got, "event:/UI/Cancel")
	}

	empty := []byte{0}
	if got := GoString(&empty[0]); got != "" {
		t.Errorf("GoString of empty C string = %q, want empty", got)
	}
}

func TestGoStringCapped(t *testing.T) {
	// Unterminated input stops at the 4096-byte safety limit.
	buf := make([]byte, 8192)
	for i := range buf {
		buf[i] = 'a'
	}
	if got := GoString(&buf[0]); len(got) != 4096 {
		t.Errorf("GoString of unterminated input returned %d bytes, want 4096", len(got))
	}
}

func TestFindLibraryMissing(t *testing.T) {
	t.Setenv("FMOD_LIBRARY_PATH", t.TempDir())

	_, err := FindLibrary("definitely-not-fmod")
	if err == nil {
		t.Fatal("FindLibrary should fail for a nonexistent library")
	}
	if !strings.Contains(err.Error(), "definitely-not-fmod") {
		t.Errorf("error should name the library: %v", err)
	}
}
