//go:build windows
// +build windows

package colors

import (
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32           = syscall.NewLazyDLL("kernel32.dll")
	procGetConsoleMode = kernel32.NewProc("GetConsoleMode")
)

// EnableColor will make a kernel call to see whether ANSI escape codes are supported on the
// stdout channel for the Windows system, and only turns coloring on when they are.
func EnableColor() {
	// If the console mode cannot be read or virtual terminal processing is not active, the
	// stdout channel will not interpret ANSI escape codes.
	var mode uint32
	r, _, _ := procGetConsoleMode.Call(os.Stdout.Fd(), uintptr(unsafe.Pointer(&mode)))
	enabled = r != 0 && mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0
}
