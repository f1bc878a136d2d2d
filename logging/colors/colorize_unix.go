//go:build !windows
// +build !windows

package colors

// EnableColor turns ANSI coloring on. Non-windows terminals support ANSI escape codes
// without any enablement calls, so this only flips the package flag.
func EnableColor() {
	enabled = true
}
