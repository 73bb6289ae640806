package platform

import (
	"os"

	"github.com/theinternetftw/glimmer"
)

// glimmer windows are a fixed size, so frames of any other size are
// cropped or padded into the render area
func runGlimmer(opts Options, updateLoop func(*WindowState)) error {
	glimmer.InitDisplayLoop(glimmer.InitDisplayLoopOptions{
		WindowTitle:  opts.Title,
		RenderWidth:  opts.Width,
		RenderHeight: opts.Height,
		WindowWidth:  opts.Width * opts.Scale,
		WindowHeight: opts.Height * opts.Scale,
		InitCallback: func(sharedState *glimmer.WindowState) {
			state := newWindowState(opts.Width, opts.Height)
			state.keySource = func(r rune) bool {
				sharedState.InputMutex.Lock()
				defer sharedState.InputMutex.Unlock()
				return sharedState.CharIsDown(r)
			}
			state.drawHook = func() {
				sharedState.RenderMutex.Lock()
				copyFrame(sharedState.Pix, opts.Width, opts.Height, state.Pix, state.Width, state.Height)
				sharedState.RenderMutex.Unlock()
			}
			state.quitHook = exitHook(opts, os.Exit)
			updateLoop(state)
		},
	})
	return nil
}
