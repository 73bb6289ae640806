package platform

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

var ebitenKeys = map[rune]ebiten.Key{
	'l': ebiten.KeyL,
	'm': ebiten.KeyM,
	'n': ebiten.KeyN,
	'p': ebiten.KeyP,
	'q': ebiten.KeyQ,
	't': ebiten.KeyT,
	'0': ebiten.KeyDigit0,
	'1': ebiten.KeyDigit1,
	'2': ebiten.KeyDigit2,
	'3': ebiten.KeyDigit3,
	'4': ebiten.KeyDigit4,
	'5': ebiten.KeyDigit5,
	'6': ebiten.KeyDigit6,
	'7': ebiten.KeyDigit7,
	'8': ebiten.KeyDigit8,
	'9': ebiten.KeyDigit9,
}

type ebitenGame struct {
	state  *WindowState
	status func() string

	frame         *ebiten.Image
	frameW        int
	frameH        int
	showStatusBar bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

func (g *ebitenGame) Update() error {
	g.state.Mutex.Lock()
	for r, k := range ebitenKeys {
		g.state.setChar(r, ebiten.IsKeyPressed(k))
	}
	g.state.Mutex.Unlock()

	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		g.showStatusBar = !g.showStatusBar
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyToClipboard()
	}
	select {
	case <-g.state.Closed():
		return ebiten.Termination
	default:
	}
	return nil
}

func (g *ebitenGame) copyToClipboard() {
	g.clipboardOnce.Do(func() {
		g.clipboardOK = clipboard.Init() == nil
	})
	if !g.clipboardOK {
		return
	}
	g.state.Mutex.Lock()
	img := frameImage(g.state.Width, g.state.Height, g.state.Pix)
	g.state.Mutex.Unlock()

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		fmt.Println("clipboard copy failed:", err)
		return
	}
	clipboard.Write(clipboard.FmtImage, buf.Bytes())
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	g.state.Mutex.Lock()
	if g.state.Width == 0 || g.state.Height == 0 {
		g.state.Mutex.Unlock()
		return
	}
	if g.frame == nil || g.frameW != g.state.Width || g.frameH != g.state.Height {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frameW, g.frameH = g.state.Width, g.state.Height
		g.frame = ebiten.NewImage(g.frameW, g.frameH)
	}
	g.frame.WritePixels(g.state.Pix)
	g.state.Mutex.Unlock()

	screen.DrawImage(g.frame, nil)
	if g.showStatusBar && g.status != nil {
		text.Draw(screen, g.status(), basicfont.Face7x13, 4, 14, color.RGBA{0, 220, 90, 255})
	}
}

func (g *ebitenGame) Layout(_, _ int) (int, int) {
	g.state.Mutex.Lock()
	defer g.state.Mutex.Unlock()
	return max(g.state.Width, 1), max(g.state.Height, 1)
}

func runEbiten(opts Options, updateLoop func(*WindowState)) error {
	state := newWindowState(opts.Width, opts.Height)
	game := &ebitenGame{state: state, status: opts.Status, showStatusBar: opts.Status != nil}

	ebiten.SetWindowSize(opts.Width*opts.Scale, opts.Height*opts.Scale)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)

	go updateLoop(state)
	defer state.close()
	return ebiten.RunGame(game)
}
