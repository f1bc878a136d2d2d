package colors

// init enables ANSI coloring for the process. Unix terminals support ANSI sequences out of the box while Windows
// consoles require a kernel call to opt in, which EnableColor performs.
func init() {
	EnableColor()
}
