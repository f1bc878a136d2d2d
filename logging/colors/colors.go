package colors

import "fmt"

// enabled describes whether ANSI coloring is currently applied. It is set during package
// initialization based on platform support and may be turned off at runtime, e.g. when
// output is redirected or a user asks for plain output.
var enabled bool

// DisableColor will disable ANSI coloring across the process. Any ColorFunc invoked after
// this call returns its input as an uncolored string.
func DisableColor() {
	enabled = false
}

// Enabled returns a boolean indicating whether ANSI coloring is currently applied.
func Enabled() bool {
	return enabled
}

// Colorize returns the string s wrapped in ANSI code c. If coloring is disabled or
// unsupported on this platform, the input is returned as a plain string.
// Source: https://github.com/rs/zerolog/blob/4fff5db29c3403bc26dee9895e12a108aacc0203/console.go
func Colorize(s any, c Color) string {
	if !enabled {
		return fmt.Sprintf("%v", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}
