//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"unsafe"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
	"github.com/Speak2Erase/fmod-go/internal/registry"
)

// System is the FMOD Studio system: the root handle owning every bank, event,
// bus and VCA obtained through it. Releasing a System invalidates all of them
// at once.
//
// System is a plain value wrapping an engine-owned object; copies alias the
// same system.
type System struct {
	ptr unsafe.Pointer
}

// NewSystem creates an uninitialized Studio System, loading the FMOD
// libraries on first use.
func NewSystem() (System, error) {
	if err := bindings.Load(); err != nil {
		return System{}, err
	}

	var ptr unsafe.Pointer
	code := bindings.StudioSystemCreate(&ptr, HeaderVersion)
	if err := newError(code, "Studio::System::create"); err != nil {
		return System{}, err
	}

	acquireUserdataRegistry()
	return System{ptr: ptr}, nil
}

// Initialize initializes the Studio System and installs the binding layer's
// system callback (used to observe bank unloads). maxChannels is the maximum
// number of concurrent core channels.
func (s System) Initialize(maxChannels int, studioFlags StudioInitFlags, coreFlags InitFlags) error {
	code := bindings.StudioSystemInitialize(s.ptr, int32(maxChannels), uint32(studioFlags), uint32(coreFlags), nil)
	if err := newError(code, "Studio::System::initialize"); err != nil {
		return err
	}
	return s.installSystemCallback(0)
}

// IsValid reports whether the system handle still refers to a live system.
func (s System) IsValid() bool {
	if s.ptr == nil || !bindings.IsLoaded() {
		return false
	}
	return bindings.StudioSystemIsValid(s.ptr) != 0
}

// Release frees the system and everything created under it. Every handle
// obtained from this system becomes invalid, and every userdata payload
// attached under it is reclaimed (cleanups run) before Release returns.
//
// Release must not be called concurrently with other FMOD calls on the same
// system; this mirrors the engine's own thread-safety contract.
func (s System) Release() error {
	code := bindings.StudioSystemRelease(s.ptr)
	if err := newError(code, "Studio::System::release"); err != nil {
		return err
	}

	// The engine fires destruction callbacks for live instances during
	// release; whatever those did not reclaim is invalidated here, before
	// control returns to the caller.
	if reg, err := currentUserdataRegistry(); err == nil {
		reg.InvalidateContext(uintptr(s.ptr))
	}
	releaseUserdataRegistry()
	return nil
}

// Update submits buffered commands to the engine for asynchronous processing.
// Call once per game tick. The userdata liveness sweep piggybacks on this
// call: every Nth update (see SetSweepInterval) the registry probes payloads
// on kinds without destruction callbacks and reclaims the dead ones.
func (s System) Update() error {
	code := bindings.StudioSystemUpdate(s.ptr)
	if err := newError(code, "Studio::System::update"); err != nil {
		return err
	}
	if reg, err := currentUserdataRegistry(); err == nil {
		reg.TickSweep(uintptr(s.ptr))
	}
	return nil
}

// SetSweepInterval sets how many Update calls elapse between userdata
// liveness sweeps. Lower values reclaim orphaned payloads sooner at a higher
// amortized probe cost. Values below 1 are clamped to 1.
func (s System) SetSweepInterval(n int) {
	if reg, err := currentUserdataRegistry(); err == nil {
		reg.SetSweepEvery(n)
	}
}

// FlushCommands blocks until all pending commands have been executed.
func (s System) FlushCommands() error {
	return newError(bindings.StudioSystemFlushCommands(s.ptr), "Studio::System::flushCommands")
}

// FlushSampleLoading blocks until all sample loading and unloading has
// completed.
func (s System) FlushSampleLoading() error {
	return newError(bindings.StudioSystemFlushSampleLoading(s.ptr), "Studio::System::flushSampleLoading")
}

// CoreVersion returns the linked FMOD core library version, as a packed BCD
// value (0x00MMmmpp).
func (s System) CoreVersion() (uint32, error) {
	var core unsafe.Pointer
	code := bindings.StudioSystemGetCoreSystem(s.ptr, &core)
	if err := newError(code, "Studio::System::getCoreSystem"); err != nil {
		return 0, err
	}
	var version uint32
	code = bindings.SystemGetVersion(core, &version)
	if err := newError(code, "System::getVersion"); err != nil {
		return 0, err
	}
	return version, nil
}

// LoadBankFile loads a bank from a .bank file built by FMOD Studio. Sample
// data is not loaded until requested; pass LoadBankNonblocking to load the
// bank asynchronously.
func (s System) LoadBankFile(filename string, flags LoadBankFlags) (Bank, error) {
	var bank unsafe.Pointer
	code := bindings.StudioSystemLoadBankFile(s.ptr, filename, uint32(flags), &bank)
	if err := newError(code, "Studio::System::loadBankFile"); err != nil {
		return Bank{}, err
	}
	return Bank{ptr: bank, sys: s.ptr}, nil
}

// UnloadAll unloads every loaded bank.
func (s System) UnloadAll() error {
	return newError(bindings.StudioSystemUnloadAll(s.ptr), "Studio::System::unloadAll")
}

// BankCount returns the number of loaded banks.
func (s System) BankCount() (int, error) {
	var count int32
	code := bindings.StudioSystemGetBankCount(s.ptr, &count)
	if err := newError(code, "Studio::System::getBankCount"); err != nil {
		return 0, err
	}
	return int(count), nil
}

// GetEvent looks up an event description by its path, e.g.
// "event:/UI/Cancel", or by GUID string. The event's bank must be loaded.
func (s System) GetEvent(path string) (EventDescription, error) {
	var desc unsafe.Pointer
	code := bindings.StudioSystemGetEvent(s.ptr, path, &desc)
	if err := newError(code, "Studio::System::getEvent"); err != nil {
		return EventDescription{}, err
	}
	return EventDescription{ptr: desc, sys: s.ptr}, nil
}

// GetBus looks up a bus by its path, e.g. "bus:/SFX".
func (s System) GetBus(path string) (Bus, error) {
	var bus unsafe.Pointer
	code := bindings.StudioSystemGetBus(s.ptr, path, &bus)
	if err := newError(code, "Studio::System::getBus"); err != nil {
		return Bus{}, err
	}
	return Bus{ptr: bus, sys: s.ptr}, nil
}

// GetVCA looks up a VCA by its path, e.g. "vca:/Music".
func (s System) GetVCA(path string) (VCA, error) {
	var vca unsafe.Pointer
	code := bindings.StudioSystemGetVCA(s.ptr, path, &vca)
	if err := newError(code, "Studio::System::getVCA"); err != nil {
		return VCA{}, err
	}
	return VCA{ptr: vca, sys: s.ptr}, nil
}

// GetBank looks up a loaded bank by its path, e.g. "bank:/Vehicles".
func (s System) GetBank(path string) (Bank, error) {
	var bank unsafe.Pointer
	code := bindings.StudioSystemGetBank(s.ptr, path, &bank)
	if err := newError(code, "Studio::System::getBank"); err != nil {
		return Bank{}, err
	}
	return Bank{ptr: bank, sys: s.ptr}, nil
}

func (s System) userdataHandle() registry.Handle {
	return registry.Handle{
		Kind:    registry.KindSystem,
		Value:   uintptr(s.ptr),
		Context: uintptr(s.ptr),
	}
}
