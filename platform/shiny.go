package platform

import (
	"image"
	"image/color"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/math/f64"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

type drawRequest struct{}
type quitRequest struct{}

func (s *WindowState) updateKeyboardState(e key.Event) {
	if e.Direction == key.DirRelease {
		s.setChar(e.Rune, false)
	} else if e.Direction == key.DirPress {
		s.setChar(e.Rune, true)
	}
}

// fitScale picks the largest whole scale factor that fits the frame in
// the window, and the x offset that centers it
func fitScale(win, frame image.Point) (scale int, centerX int) {
	if frame.X == 0 || frame.Y == 0 {
		return 1, 0
	}
	scale = win.X / frame.X
	if sy := win.Y / frame.Y; sy < scale {
		scale = sy
	}
	if scale < 1 {
		scale = 1
	}
	return scale, win.X/2 - scale*frame.X/2
}

func runShiny(opts Options, updateLoop func(*WindowState)) error {
	var loopErr error
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Width:  opts.Width * opts.Scale,
			Height: opts.Height * opts.Scale,
			Title:  opts.Title,
		})
		if err != nil {
			loopErr = err
			return
		}
		defer w.Release()

		var buf screen.Buffer
		var tex screen.Texture
		realloc := func(sz image.Point) error {
			if buf != nil {
				buf.Release()
				tex.Release()
			}
			if buf, err = s.NewBuffer(sz); err != nil {
				return err
			}
			tex, err = s.NewTexture(sz)
			return err
		}
		if loopErr = realloc(image.Point{opts.Width, opts.Height}); loopErr != nil {
			return
		}

		windowState := newWindowState(opts.Width, opts.Height)
		drawRequested := false
		windowState.drawHook = func() {
			if !drawRequested {
				w.Send(drawRequest{})
				drawRequested = true
			}
		}
		windowState.quitHook = func() { w.Send(quitRequest{}) }
		defer windowState.close()

		go updateLoop(windowState)

		szRect := buf.Bounds()
		needFullRepaint := true

		for {
			publish := false

			switch e := w.NextEvent().(type) {
			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case quitRequest:
				return

			case key.Event:
				windowState.Mutex.Lock()
				windowState.updateKeyboardState(e)
				windowState.Mutex.Unlock()

			case drawRequest:
				windowState.Mutex.Lock()
				frameSz := image.Point{windowState.Width, windowState.Height}
				if frameSz != buf.Size() && frameSz.X > 0 && frameSz.Y > 0 {
					if loopErr = realloc(frameSz); loopErr != nil {
						windowState.Mutex.Unlock()
						return
					}
					needFullRepaint = true
				}
				copy(buf.RGBA().Pix, windowState.Pix)
				tex.Upload(image.Point{}, buf, buf.Bounds())
				drawRequested = false
				windowState.Mutex.Unlock()
				publish = true

			case size.Event:
				szRect = e.Bounds()
				needFullRepaint = true

			case paint.Event:
				needFullRepaint = true
				publish = true
			}

			if publish {
				scale, centerX := fitScale(szRect.Max, tex.Size())
				src2dst := f64.Aff3{
					float64(scale), 0, float64(centerX),
					0, float64(scale), 0,
				}
				identTrans := f64.Aff3{
					1, 0, 0,
					0, 1, 0,
				}
				// two draws every frame flicker, so only clear when the
				// window or the frame changed shape
				if needFullRepaint {
					w.DrawUniform(identTrans, color.Black, szRect, screen.Src, nil)
					needFullRepaint = false
				}
				w.Draw(src2dst, tex, tex.Bounds(), screen.Src, nil)
				w.Publish()
			}
		}
	})
	return loopErr
}
