//go:build !ios && !android && (amd64 || arm64)

package fmod

import (
	"sync"
	"unsafe"

	"github.com/Speak2Erase/fmod-go/internal/bindings"
	"github.com/Speak2Erase/fmod-go/internal/registry"
	"github.com/ebitengine/purego"
)

// EventCallbackMask selects which event callbacks fire.
type EventCallbackMask uint32

// Event callback types (FMOD_STUDIO_EVENT_CALLBACK_*).
const (
	EventCallbackCreated       EventCallbackMask = 0x00000001
	EventCallbackDestroyed     EventCallbackMask = 0x00000002
	EventCallbackStarting      EventCallbackMask = 0x00000004
	EventCallbackStarted       EventCallbackMask = 0x00000008
	EventCallbackRestarted     EventCallbackMask = 0x00000010
	EventCallbackStopped       EventCallbackMask = 0x00000020
	EventCallbackStartFailed   EventCallbackMask = 0x00000040
	EventCallbackRealToVirtual EventCallbackMask = 0x00008000
	EventCallbackVirtualToReal EventCallbackMask = 0x00010000
	EventCallbackAll           EventCallbackMask = 0xFFFFFFFF
)

// SystemCallbackMask selects which system callbacks fire.
type SystemCallbackMask uint32

// System callback types (FMOD_STUDIO_SYSTEM_CALLBACK_*).
const (
	SystemCallbackPreupdate              SystemCallbackMask = 0x00000001
	SystemCallbackPostupdate             SystemCallbackMask = 0x00000002
	SystemCallbackBankUnload             SystemCallbackMask = 0x00000004
	SystemCallbackLiveUpdateConnected    SystemCallbackMask = 0x00000008
	SystemCallbackLiveUpdateDisconnected SystemCallbackMask = 0x00000010
	SystemCallbackAll                    SystemCallbackMask = 0xFFFFFFFF
)

// EventCallbacks receives event instance lifecycle notifications. Unset
// functions are ignored. Callbacks run on the engine's update thread and must
// not call back into engine-mutating operations.
type EventCallbacks struct {
	Created       func(EventInstance) error
	Destroyed     func(EventInstance) error
	Starting      func(EventInstance) error
	Started       func(EventInstance) error
	Restarted     func(EventInstance) error
	Stopped       func(EventInstance) error
	StartFailed   func(EventInstance) error
	RealToVirtual func(EventInstance) error
	VirtualToReal func(EventInstance) error
}

// SystemCallbacks receives system-level notifications. Unset functions are
// ignored. Callbacks run on the engine's update thread and must not call back
// into engine-mutating operations.
type SystemCallbacks struct {
	Preupdate              func(System) error
	Postupdate             func(System) error
	BankUnload             func(System, Bank) error
	LiveUpdateConnected    func(System) error
	LiveUpdateDisconnected func(System) error
}

// Pre-registered trampolines, created once and shared by every instance and
// system to stay well under purego's callback limit.
var (
	trampolineOnce      sync.Once
	eventTrampolinePtr  uintptr
	systemTrampolinePtr uintptr
)

func initTrampolines() {
	trampolineOnce.Do(func() {
		eventTrampolinePtr = purego.NewCallback(eventTrampoline)
		systemTrampolinePtr = purego.NewCallback(systemTrampoline)
	})
}

// eventTrampoline is installed as the native event callback for every
// instance the binding layer tracks. On DESTROYED it reclaims the instance's
// registry entry (cleanup, then removal) before forwarding the event; for all
// other types it is a plain dispatcher. The original event is never
// swallowed: forwarding happens whether or not a payload was attached.
//
// Signature: FMOD_RESULT (*)(FMOD_STUDIO_EVENT_CALLBACK_TYPE, FMOD_STUDIO_EVENTINSTANCE*, void*)
func eventTrampoline(_ purego.CDecl, kind uint32, instance unsafe.Pointer, _ unsafe.Pointer) int32 {
	reg, err := currentUserdataRegistry()
	if err != nil {
		return int32(OK)
	}
	value := uintptr(instance)

	var (
		handler any
		ctx     uintptr
	)
	if EventCallbackMask(kind) == EventCallbackDestroyed {
		handler, ctx, _ = reg.Reclaim(registry.KindEventInstance, value)
	} else {
		handler, _, ctx, _ = reg.Handler(registry.KindEventInstance, value)
	}

	cbs, ok := handler.(*EventCallbacks)
	if !ok || cbs == nil {
		return int32(OK)
	}

	inst := EventInstance{ptr: instance, sys: unsafe.Pointer(ctx)}
	var cb func(EventInstance) error
	switch EventCallbackMask(kind) {
	case EventCallbackCreated:
		cb = cbs.Created
	case EventCallbackDestroyed:
		cb = cbs.Destroyed
	case EventCallbackStarting:
		cb = cbs.Starting
	case EventCallbackStarted:
		cb = cbs.Started
	case EventCallbackRestarted:
		cb = cbs.Restarted
	case EventCallbackStopped:
		cb = cbs.Stopped
	case EventCallbackStartFailed:
		cb = cbs.StartFailed
	case EventCallbackRealToVirtual:
		cb = cbs.RealToVirtual
	case EventCallbackVirtualToReal:
		cb = cbs.VirtualToReal
	}
	if cb == nil {
		return int32(OK)
	}
	return resultOf(cb(inst))
}

// systemTrampoline is installed as the native system callback at Initialize.
// BANK_UNLOAD doubles as the destruction notification for bank userdata: the
// dying bank's registry entry is reclaimed before the event is forwarded.
//
// Signature: FMOD_RESULT (*)(FMOD_STUDIO_SYSTEM*, FMOD_STUDIO_SYSTEM_CALLBACK_TYPE, void*, void*)
func systemTrampoline(_ purego.CDecl, system unsafe.Pointer, kind uint32, commandData unsafe.Pointer, _ unsafe.Pointer) int32 {
	reg, err := currentUserdataRegistry()
	if err != nil {
		return int32(OK)
	}

	if SystemCallbackMask(kind) == SystemCallbackBankUnload {
		reg.Reclaim(registry.KindBank, uintptr(commandData))
	}

	handler, _, _, ok := reg.Handler(registry.KindSystem, uintptr(system))
	if !ok {
		return int32(OK)
	}
	cbs, ok := handler.(*SystemCallbacks)
	if !ok || cbs == nil {
		return int32(OK)
	}

	sys := System{ptr: system}
	switch SystemCallbackMask(kind) {
	case SystemCallbackPreupdate:
		if cbs.Preupdate != nil {
			return resultOf(cbs.Preupdate(sys))
		}
	case SystemCallbackPostupdate:
		if cbs.Postupdate != nil {
			return resultOf(cbs.Postupdate(sys))
		}
	case SystemCallbackBankUnload:
		if cbs.BankUnload != nil {
			return resultOf(cbs.BankUnload(sys, Bank{ptr: commandData, sys: system}))
		}
	case SystemCallbackLiveUpdateConnected:
		if cbs.LiveUpdateConnected != nil {
			return resultOf(cbs.LiveUpdateConnected(sys))
		}
	case SystemCallbackLiveUpdateDisconnected:
		if cbs.LiveUpdateDisconnected != nil {
			return resultOf(cbs.LiveUpdateDisconnected(sys))
		}
	}
	return int32(OK)
}

// resultOf maps a handler error back to an FMOD_RESULT for the engine.
func resultOf(err error) int32 {
	if err == nil {
		return int32(OK)
	}
	if code := ErrorCode(err); code != OK {
		return int32(code)
	}
	return int32(ErrInternal)
}

// SetCallback registers callbacks for the instance. Pass nil to clear. The
// native callback is installed with the destruction bit forced on: the
// binding layer relies on it to reclaim attached userdata.
func (e EventInstance) SetCallback(cb *EventCallbacks, mask EventCallbackMask) error {
	reg, err := currentUserdataRegistry()
	if err != nil {
		return err
	}
	h := e.userdataHandle()

	var handler any
	if cb != nil {
		handler = cb
	}
	if err := reg.SetHandler(h, handler, uint32(mask)); err != nil {
		if err == registry.ErrInvalidHandle {
			return NewError(ErrInvalidHandle, "Studio::EventInstance::setCallback")
		}
		return err
	}
	reg.MarkInstalled(h)
	return e.installCallback(mask)
}

// installCallback points the instance's native callback at the shared
// trampoline. The destruction bit is always included so userdata reclamation
// works independently of the caller's mask.
func (e EventInstance) installCallback(mask EventCallbackMask) error {
	initTrampolines()
	code := bindings.StudioEventInstanceSetCallback(e.ptr, eventTrampolinePtr, uint32(mask|EventCallbackDestroyed))
	return newError(code, "Studio::EventInstance::setCallback")
}

// SetCallback registers system-level callbacks. Pass nil to clear. The native
// callback keeps the bank-unload bit forced on: the binding layer relies on
// it to reclaim bank userdata.
func (s System) SetCallback(cb *SystemCallbacks, mask SystemCallbackMask) error {
	reg, err := currentUserdataRegistry()
	if err != nil {
		return err
	}

	var handler any
	if cb != nil {
		handler = cb
	}
	if err := reg.SetHandler(s.userdataHandle(), handler, uint32(mask)); err != nil {
		if err == registry.ErrInvalidHandle {
			return NewError(ErrInvalidHandle, "Studio::System::setCallback")
		}
		return err
	}
	return s.installSystemCallback(mask)
}

func (s System) installSystemCallback(mask SystemCallbackMask) error {
	initTrampolines()
	code := bindings.StudioSystemSetCallback(s.ptr, systemTrampolinePtr, uint32(mask|SystemCallbackBankUnload))
	return newError(code, "Studio::System::setCallback")
}
