package main

import (
	"context"
	"runtime"
	"syscall"
	"unsafe"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	procSetWindowsHookEx = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx   = user32.NewProc("CallNextHookEx")
	procGetMessage       = user32.NewProc("GetMessageW")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

const (
	WH_KEYBOARD_LL = 13
	WM_KEYDOWN     = 0x0100
	VK_R           = 0x52
	VK_CONTROL     = 0x11
)

// KBDLLHOOKSTRUCT contains information about a low-level keyboard input event
type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type MSG struct {
	HWND    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

var (
	hotkeyApp    *App
	hotkeyCtx    context.Context
	keyboardHook uintptr
)

func isKeyPressed(vk uintptr) bool {
	ret, _, _ := procGetAsyncKeyState.Call(vk)
	return ret&0x8000 != 0
}

// keyboardProc is the low-level keyboard hook callback. It must return
// quickly, so the reroll runs on its own goroutine.
func keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 && wParam == WM_KEYDOWN {
		kbStruct := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))
		if kbStruct.VkCode == VK_R && isKeyPressed(VK_CONTROL) && hotkeyApp != nil {
			go hotkeyApp.RerollAndRestoreChampion(hotkeyCtx)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(keyboardHook, uintptr(nCode), wParam, lParam)
	return ret
}

// RegisterRerollHotkey installs Ctrl+R as a global reroll hotkey.
func (a *App) RegisterRerollHotkey(ctx context.Context) {
	hotkeyApp = a
	hotkeyCtx = ctx

	go func() {
		// The hook belongs to the installing thread, which must pump messages.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		callback := syscall.NewCallback(keyboardProc)

		ret, _, err := procSetWindowsHookEx.Call(WH_KEYBOARD_LL, callback, 0, 0)
		if ret == 0 {
			a.log.Warn().Err(err).Msg("failed to install keyboard hook")
			return
		}
		keyboardHook = ret
		a.log.Info().Msg("installed Ctrl+R reroll hotkey")

		// Message loop to keep the hook alive
		var msg MSG
		for {
			ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if ret == 0 {
				break
			}
		}
	}()
}
