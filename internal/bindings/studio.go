//go:build !ios && !android && (amd64 || arm64)

package bindings

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// OK is FMOD_OK, the success result code.
const OK int32 = 0

// FMOD Studio function bindings. All are valid only after Load() succeeds;
// every function returns an FMOD_RESULT code unless noted. The IsValid
// bindings return FMOD_BOOL (nonzero means live) and double as the liveness
// probes for the userdata registry.
var (
	// Studio::System
	StudioSystemCreate             func(system *unsafe.Pointer, headerVersion uint32) int32
	StudioSystemIsValid            func(system unsafe.Pointer) int32
	StudioSystemInitialize         func(system unsafe.Pointer, maxChannels int32, studioFlags, coreFlags uint32, extraDriverData unsafe.Pointer) int32
	StudioSystemRelease            func(system unsafe.Pointer) int32
	StudioSystemUpdate             func(system unsafe.Pointer) int32
	StudioSystemFlushCommands      func(system unsafe.Pointer) int32
	StudioSystemFlushSampleLoading func(system unsafe.Pointer) int32
	StudioSystemGetCoreSystem      func(system unsafe.Pointer, core *unsafe.Pointer) int32
	StudioSystemLoadBankFile       func(system unsafe.Pointer, filename string, flags uint32, bank *unsafe.Pointer) int32
	StudioSystemUnloadAll          func(system unsafe.Pointer) int32
	StudioSystemGetEvent           func(system unsafe.Pointer, path string, desc *unsafe.Pointer) int32
	StudioSystemGetBus             func(system unsafe.Pointer, path string, bus *unsafe.Pointer) int32
	StudioSystemGetVCA             func(system unsafe.Pointer, path string, vca *unsafe.Pointer) int32
	StudioSystemGetBank            func(system unsafe.Pointer, path string, bank *unsafe.Pointer) int32
	StudioSystemGetBankCount       func(system unsafe.Pointer, count *int32) int32
	StudioSystemSetCallback        func(system unsafe.Pointer, callback uintptr, mask uint32) int32

	// Studio::EventDescription
	StudioEventDescriptionIsValid             func(desc unsafe.Pointer) int32
	StudioEventDescriptionCreateInstance      func(desc unsafe.Pointer, instance *unsafe.Pointer) int32
	StudioEventDescriptionGetPath             func(desc unsafe.Pointer, path *byte, size int32, retrieved *int32) int32
	StudioEventDescriptionGetInstanceCount    func(desc unsafe.Pointer, count *int32) int32
	StudioEventDescriptionLoadSampleData      func(desc unsafe.Pointer) int32
	StudioEventDescriptionUnloadSampleData    func(desc unsafe.Pointer) int32
	StudioEventDescriptionReleaseAllInstances func(desc unsafe.Pointer) int32

	// Studio::EventInstance
	StudioEventInstanceIsValid             func(instance unsafe.Pointer) int32
	StudioEventInstanceStart               func(instance unsafe.Pointer) int32
	StudioEventInstanceStop                func(instance unsafe.Pointer, mode int32) int32
	StudioEventInstanceRelease             func(instance unsafe.Pointer) int32
	StudioEventInstanceSetPaused           func(instance unsafe.Pointer, paused int32) int32
	StudioEventInstanceGetPaused           func(instance unsafe.Pointer, paused *int32) int32
	StudioEventInstanceSetVolume           func(instance unsafe.Pointer, volume float32) int32
	StudioEventInstanceGetVolume           func(instance unsafe.Pointer, volume, finalVolume *float32) int32
	StudioEventInstanceSetPitch            func(instance unsafe.Pointer, pitch float32) int32
	StudioEventInstanceGetPitch            func(instance unsafe.Pointer, pitch, finalPitch *float32) int32
	StudioEventInstanceGetPlaybackState    func(instance unsafe.Pointer, state *int32) int32
	StudioEventInstanceSetParameterByName  func(instance unsafe.Pointer, name string, value float32, ignoreSeekSpeed int32) int32
	StudioEventInstanceGetParameterByName  func(instance unsafe.Pointer, name string, value, finalValue *float32) int32
	StudioEventInstanceSetTimelinePosition func(instance unsafe.Pointer, position int32) int32
	StudioEventInstanceGetTimelinePosition func(instance unsafe.Pointer, position *int32) int32
	StudioEventInstanceSetCallback         func(instance unsafe.Pointer, callback uintptr, mask uint32) int32
	StudioEventInstanceGetDescription      func(instance unsafe.Pointer, desc *unsafe.Pointer) int32

	// Studio::Bank
	StudioBankIsValid          func(bank unsafe.Pointer) int32
	StudioBankGetPath          func(bank unsafe.Pointer, path *byte, size int32, retrieved *int32) int32
	StudioBankUnload           func(bank unsafe.Pointer) int32
	StudioBankLoadSampleData   func(bank unsafe.Pointer) int32
	StudioBankUnloadSampleData func(bank unsafe.Pointer) int32
	StudioBankGetLoadingState  func(bank unsafe.Pointer, state *int32) int32
	StudioBankGetEventCount    func(bank unsafe.Pointer, count *int32) int32

	// Studio::Bus
	StudioBusIsValid       func(bus unsafe.Pointer) int32
	StudioBusGetPath       func(bus unsafe.Pointer, path *byte, size int32, retrieved *int32) int32
	StudioBusSetVolume     func(bus unsafe.Pointer, volume float32) int32
	StudioBusGetVolume     func(bus unsafe.Pointer, volume, finalVolume *float32) int32
	StudioBusSetPaused     func(bus unsafe.Pointer, paused int32) int32
	StudioBusGetPaused     func(bus unsafe.Pointer, paused *int32) int32
	StudioBusSetMute       func(bus unsafe.Pointer, mute int32) int32
	StudioBusGetMute       func(bus unsafe.Pointer, mute *int32) int32
	StudioBusStopAllEvents func(bus unsafe.Pointer, mode int32) int32

	// Studio::VCA
	StudioVCAIsValid   func(vca unsafe.Pointer) int32
	StudioVCAGetPath   func(vca unsafe.Pointer, path *byte, size int32, retrieved *int32) int32
	StudioVCASetVolume func(vca unsafe.Pointer, volume float32) int32
	StudioVCAGetVolume func(vca unsafe.Pointer, volume, finalVolume *float32) int32
)

// Core library bindings.
var (
	SystemGetVersion func(system unsafe.Pointer, version *uint32) int32
	DebugInitialize  func(flags uint32, mode int32, callback uintptr, filename *byte) int32
)

func registerStudio() {
	lib := libFMODStudio

	purego.RegisterLibFunc(&StudioSystemCreate, lib, "FMOD_Studio_System_Create")
	purego.RegisterLibFunc(&StudioSystemIsValid, lib, "FMOD_Studio_System_IsValid")
	purego.RegisterLibFunc(&StudioSystemInitialize, lib, "FMOD_Studio_System_Initialize")
	purego.RegisterLibFunc(&StudioSystemRelease, lib, "FMOD_Studio_System_Release")
	purego.RegisterLibFunc(&StudioSystemUpdate, lib, "FMOD_Studio_System_Update")
	purego.RegisterLibFunc(&StudioSystemFlushCommands, lib, "FMOD_Studio_System_FlushCommands")
	purego.RegisterLibFunc(&StudioSystemFlushSampleLoading, lib, "FMOD_Studio_System_FlushSampleLoading")
	purego.RegisterLibFunc(&StudioSystemGetCoreSystem, lib, "FMOD_Studio_System_GetCoreSystem")
	purego.RegisterLibFunc(&StudioSystemLoadBankFile, lib, "FMOD_Studio_System_LoadBankFile")
	purego.RegisterLibFunc(&StudioSystemUnloadAll, lib, "FMOD_Studio_System_UnloadAll")
	purego.RegisterLibFunc(&StudioSystemGetEvent, lib, "FMOD_Studio_System_GetEvent")
	purego.RegisterLibFunc(&StudioSystemGetBus, lib, "FMOD_Studio_System_GetBus")
	purego.RegisterLibFunc(&StudioSystemGetVCA, lib, "FMOD_Studio_System_GetVCA")
	purego.RegisterLibFunc(&StudioSystemGetBank, lib, "FMOD_Studio_System_GetBank")
	purego.RegisterLibFunc(&StudioSystemGetBankCount, lib, "FMOD_Studio_System_GetBankCount")
	purego.RegisterLibFunc(&StudioSystemSetCallback, lib, "FMOD_Studio_System_SetCallback")

	purego.RegisterLibFunc(&StudioEventDescriptionIsValid, lib, "FMOD_Studio_EventDescription_IsValid")
	purego.RegisterLibFunc(&StudioEventDescriptionCreateInstance, lib, "FMOD_Studio_EventDescription_CreateInstance")
	purego.RegisterLibFunc(&StudioEventDescriptionGetPath, lib, "FMOD_Studio_EventDescription_GetPath")
	purego.RegisterLibFunc(&StudioEventDescriptionGetInstanceCount, lib, "FMOD_Studio_EventDescription_GetInstanceCount")
	purego.RegisterLibFunc(&StudioEventDescriptionLoadSampleData, lib, "FMOD_Studio_EventDescription_LoadSampleData")
	purego.RegisterLibFunc(&StudioEventDescriptionUnloadSampleData, lib, "FMOD_Studio_EventDescription_UnloadSampleData")
	purego.RegisterLibFunc(&StudioEventDescriptionReleaseAllInstances, lib, "FMOD_Studio_EventDescription_ReleaseAllInstances")

	purego.RegisterLibFunc(&StudioEventInstanceIsValid, lib, "FMOD_Studio_EventInstance_IsValid")
	purego.RegisterLibFunc(&StudioEventInstanceStart, lib, "FMOD_Studio_EventInstance_Start")
	purego.RegisterLibFunc(&StudioEventInstanceStop, lib, "FMOD_Studio_EventInstance_Stop")
	purego.RegisterLibFunc(&StudioEventInstanceRelease, lib, "FMOD_Studio_EventInstance_Release")
	purego.RegisterLibFunc(&StudioEventInstanceSetPaused, lib, "FMOD_Studio_EventInstance_SetPaused")
	purego.RegisterLibFunc(&StudioEventInstanceGetPaused, lib, "FMOD_Studio_EventInstance_GetPaused")
	purego.RegisterLibFunc(&StudioEventInstanceSetVolume, lib, "FMOD_Studio_EventInstance_SetVolume")
	purego.RegisterLibFunc(&StudioEventInstanceGetVolume, lib, "FMOD_Studio_EventInstance_GetVolume")
	purego.RegisterLibFunc(&StudioEventInstanceSetPitch, lib, "FMOD_Studio_EventInstance_SetPitch")
	purego.RegisterLibFunc(&StudioEventInstanceGetPitch, lib, "FMOD_Studio_EventInstance_GetPitch")
	purego.RegisterLibFunc(&StudioEventInstanceGetPlaybackState, lib, "FMOD_Studio_EventInstance_GetPlaybackState")
	purego.RegisterLibFunc(&StudioEventInstanceSetParameterByName, lib, "FMOD_Studio_EventInstance_SetParameterByName")
	purego.RegisterLibFunc(&StudioEventInstanceGetParameterByName, lib, "FMOD_Studio_EventInstance_GetParameterByName")
	purego.RegisterLibFunc(&StudioEventInstanceSetTimelinePosition, lib, "FMOD_Studio_EventInstance_SetTimelinePosition")
	purego.RegisterLibFunc(&StudioEventInstanceGetTimelinePosition, lib, "FMOD_Studio_EventInstance_GetTimelinePosition")
	purego.RegisterLibFunc(&StudioEventInstanceSetCallback, lib, "FMOD_Studio_EventInstance_SetCallback")
	purego.RegisterLibFunc(&StudioEventInstanceGetDescription, lib, "FMOD_Studio_EventInstance_GetDescription")

	purego.RegisterLibFunc(&StudioBankIsValid, lib, "FMOD_Studio_Bank_IsValid")
	purego.RegisterLibFunc(&StudioBankGetPath, lib, "FMOD_Studio_Bank_GetPath")
	purego.RegisterLibFunc(&StudioBankUnload, lib, "FMOD_Studio_Bank_Unload")
	purego.RegisterLibFunc(&StudioBankLoadSampleData, lib, "FMOD_Studio_Bank_LoadSampleData")
	purego.RegisterLibFunc(&StudioBankUnloadSampleData, lib, "FMOD_Studio_Bank_UnloadSampleData")
	purego.RegisterLibFunc(&StudioBankGetLoadingState, lib, "FMOD_Studio_Bank_GetLoadingState")
	purego.RegisterLibFunc(&StudioBankGetEventCount, lib, "FMOD_Studio_Bank_GetEventCount")

	purego.RegisterLibFunc(&StudioBusIsValid, lib, "FMOD_Studio_Bus_IsValid")
	purego.RegisterLibFunc(&StudioBusGetPath, lib, "FMOD_Studio_Bus_GetPath")
	purego.RegisterLibFunc(&StudioBusSetVolume, lib, "FMOD_Studio_Bus_SetVolume")
	purego.RegisterLibFunc(&StudioBusGetVolume, lib, "FMOD_Studio_Bus_GetVolume")
	purego.RegisterLibFunc(&StudioBusSetPaused, lib, "FMOD_Studio_Bus_SetPaused")
	purego.RegisterLibFunc(&StudioBusGetPaused, lib, "FMOD_Studio_Bus_GetPaused")
	purego.RegisterLibFunc(&StudioBusSetMute, lib, "FMOD_Studio_Bus_SetMute")
	purego.RegisterLibFunc(&StudioBusGetMute, lib, "FMOD_Studio_Bus_GetMute")
	purego.RegisterLibFunc(&StudioBusStopAllEvents, lib, "FMOD_Studio_Bus_StopAllEvents")

	purego.RegisterLibFunc(&StudioVCAIsValid, lib, "FMOD_Studio_VCA_IsValid")
	purego.RegisterLibFunc(&StudioVCAGetPath, lib, "FMOD_Studio_VCA_GetPath")
	purego.RegisterLibFunc(&StudioVCASetVolume, lib, "FMOD_Studio_VCA_SetVolume")
	purego.RegisterLibFunc(&StudioVCAGetVolume, lib, "FMOD_Studio_VCA_GetVolume")
}

func registerCore() {
	lib := libFMOD

	purego.RegisterLibFunc(&SystemGetVersion, lib, "FMOD_System_GetVersion")
	purego.RegisterLibFunc(&DebugInitialize, lib, "FMOD_Debug_Initialize")
}
