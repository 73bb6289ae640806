package platform

import "fmt"

// Options describe the window a frontend opens
type Options struct {
	Title  string
	Width  int
	Height int
	// Scale multiplies the initial window size
	Scale int
	// Status, if set, is drawn over the frame by frontends that can. It
	// is called from the window loop.
	Status func() string
	// OnExit, if set, runs before a frontend that ends the process on
	// quit does so. Deferred calls in main never run in that case.
	OnExit func()
}

var frontends = map[string]func(Options, func(*WindowState)) error{
	"glimmer":  runGlimmer,
	"shiny":    runShiny,
	"ebiten":   runEbiten,
	"headless": runHeadless,
}

// Frontends lists the names Run accepts
func Frontends() []string {
	return []string{"glimmer", "shiny", "ebiten", "headless"}
}

// Run opens a window and runs updateLoop next to it. Call it from the
// main goroutine; it returns when the window loop ends.
func Run(frontend string, opts Options, updateLoop func(*WindowState)) error {
	run, ok := frontends[frontend]
	if !ok {
		return fmt.Errorf("unknown frontend %q (want one of %v)", frontend, Frontends())
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	if opts.Width < 1 || opts.Height < 1 {
		return fmt.Errorf("bad window size %dx%d", opts.Width, opts.Height)
	}
	return run(opts, updateLoop)
}

// exitHook is the quit hook for frontends that can only leave by
// ending the process
func exitHook(opts Options, exit func(int)) func() {
	return func() {
		if opts.OnExit != nil {
			opts.OnExit()
		}
		exit(0)
	}
}

// runHeadless has no window at all. updateLoop runs on the calling
// goroutine and nothing is ever pressed.
func runHeadless(opts Options, updateLoop func(*WindowState)) error {
	state := newWindowState(opts.Width, opts.Height)
	defer state.close()
	updateLoop(state)
	return nil
}
