package main

import (
	"github.com/theinternetftw/cg14"
	"github.com/theinternetftw/cg14/guest"
	"github.com/theinternetftw/cg14/platform"
	"github.com/theinternetftw/cg14/profiling"
	"github.com/theinternetftw/glimmer"

	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	fs := flag.NewFlagSet("cg14view", flag.ExitOnError)
	vramFlag := fs.String("vram", "4M", "video memory size (power of two, up to 16M)")
	monitorFlag := fs.String("monitor", "1024x768", "monitor sense code or resolution: 1024x768, 1600x1280, 1280x1024, 1152x900")
	scriptFlag := fs.String("script", "", "lua guest program (default: built in test pattern)")
	frontendFlag := fs.String("frontend", "glimmer", "display: "+strings.Join(platform.Frontends(), ", "))
	framesFlag := fs.Int("frames", 0, "stop after this many frames (0 runs until the window closes)")
	ppmFlag := fs.String("ppm", "", "write the last frame to this ppm file on exit")
	consoleFlag := fs.Bool("console", false, "read monitor commands from stdin")
	profileFlag := fs.String("profile", "", "profile: live, "+strings.Join(profiling.Kinds(), ", "))
	logFlag := fs.String("v", "error", "device log level: off, error, info, debug")
	scaleFlag := fs.Int("scale", 1, "initial window scale")
	dieIf(fs.Parse(os.Args[1:]))
	assert(fs.NArg() == 0, "usage: cg14view [flags]  (see -h)")

	stopper, err := profiling.Start(*profileFlag)
	dieIf(err)
	var cleanups []func()
	cleanup := runOnce(&cleanups)
	defer cleanup()
	exitCleanup = cleanup
	cleanups = append(cleanups, stopper.Stop)

	cfg := cg14.DefaultConfig()
	cfg.VRAMSize, err = cg14.ParseVRAMSize(*vramFlag)
	dieIf(err)
	monitor, err := cg14.ParseMonitor(*monitorFlag)
	dieIf(err)
	cfg.MonitorID = monitor.ID
	cfg.LogLevel, err = cg14.ParseLogLevel(*logFlag)
	dieIf(err)

	var console *platform.Console
	if *consoleFlag {
		console, err = platform.OpenConsole("cg14> ")
		dieIf(err)
		cleanups = append(cleanups, func() { console.Close() })
		cfg.LogOutput = console
	}

	fb := &cg14.Framebuffer{}
	dev, err := cg14.New(cfg, fb)
	dieIf(err)
	bus := cg14.NewBus(dev)

	var prog *guest.Program
	if *scriptFlag == "" {
		prog, err = guest.LoadDefault(bus, cfg)
	} else {
		var src []byte
		src, err = os.ReadFile(*scriptFlag)
		dieIf(err)
		prog, err = guest.Load(bus, cfg, *scriptFlag, string(src))
	}
	dieIf(err)
	defer prog.Close()

	// TODO: config file instead
	devMode := fileExists("devmode")

	session := sessionState{
		snapshotPrefix: "cg14view.snapshot",
		shotPrefix:     "cg14view",
		frameTimer:     glimmer.MakeFrameTimer(),
		dev:            dev,
		fb:             fb,
		prog:           prog,
		console:        console,
		maxFrames:      *framesFlag,
		ppmFilename:    *ppmFlag,
		headless:       *frontendFlag == "headless",
		devMode:        devMode,
	}
	if console != nil {
		session.monitor = cg14.NewMonitor(dev, bus, console)
	} else {
		session.monitor = cg14.NewMonitor(dev, bus, os.Stdout)
	}
	if session.headless && session.maxFrames == 0 && console == nil {
		session.maxFrames = 1
	}
	session.status.Store("")

	err = platform.Run(*frontendFlag, platform.Options{
		Title:  "cg14view - " + prog.Name(),
		Width:  monitor.Width,
		Height: monitor.Height,
		Scale:  *scaleFlag,
		Status: session.statusLine,
		OnExit: cleanup,
	}, func(window *platform.WindowState) {
		runBoard(&session, window)
	})
	dieIf(err)
}

type sessionState struct {
	snapshotMode   rune
	snapshotPrefix string
	shotPrefix     string
	shotCount      int
	keysDown       map[rune]bool

	frameTimer glimmer.FrameTimer
	dev        *cg14.Device
	fb         *cg14.Framebuffer
	prog       *guest.Program
	monitor    *cg14.Monitor
	console    *platform.Console

	maxFrames   int
	ppmFilename string
	headless    bool
	devMode     bool
	quit        bool
	modeChanges int

	status atomic.Value
}

func (s *sessionState) statusLine() string {
	return s.status.Load().(string)
}

func runBoard(session *sessionState, window *platform.WindowState) {
	session.fb.OnResize = func(w, h int) {
		session.modeChanges++
		if session.devMode {
			fmt.Printf("mode change: %dx%d\n", w, h)
		}
	}
	session.fb.OnPresent = func(x, y, w, h int) {
		window.PostFrame(session.fb.Width, session.fb.Height, session.fb.Pix)
	}
	session.dev.Invalidate()

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for frame := 0; !session.quit; frame++ {
		if session.maxFrames > 0 && frame >= session.maxFrames {
			break
		}
		// headless runs flat out unless someone is typing at it
		if frame > 0 && (!session.headless || session.console != nil) {
			select {
			case <-ticker.C:
			case <-window.Closed():
				return
			}
		}

		window.Mutex.Lock()
		session.pollKeys(window)
		window.Mutex.Unlock()

		session.runConsole()

		if session.prog != nil {
			if err := session.prog.Frame(frame); err != nil {
				fmt.Println(err)
				session.prog = nil
			}
		}

		session.dev.Refresh()
		session.frameTimer.MarkRenderComplete()
		session.frameTimer.MarkFrameComplete()
		if session.devMode {
			session.frameTimer.PrintStatsEveryXFrames(60 * 5)
		}

		w, h := session.dev.Geometry()
		session.status.Store(fmt.Sprintf("%dx%d frame %d", w, h, frame))
	}

	if session.ppmFilename != "" {
		if err := writeFileWith(session.ppmFilename, session.dev.WritePPM); err != nil {
			fmt.Println("failed to write ppm:", err)
		}
	}
	window.Quit()
}

// pollKeys handles hotkeys. Called with window.Mutex held.
func (s *sessionState) pollKeys(window *platform.WindowState) {
	if s.keysDown == nil {
		s.keysDown = map[rune]bool{}
	}
	pressed := func(r rune) bool {
		down := window.CharIsDown(r)
		wasDown := s.keysDown[r]
		s.keysDown[r] = down
		return down && !wasDown
	}

	if pressed('q') {
		s.quit = true
	}
	if pressed('p') {
		s.shotCount++
		fname := fmt.Sprintf("%s.%04d.ppm", s.shotPrefix, s.shotCount)
		if err := writeFileWith(fname, s.dev.WritePPM); err != nil {
			fmt.Println("failed to write screenshot:", err)
		}
	}
	if pressed('t') {
		s.shotCount++
		fname := fmt.Sprintf("%s.%04d.tga", s.shotPrefix, s.shotCount)
		err := writeFileWith(fname, func(w io.Writer) error { return cg14.WriteTGA(w, s.fb) })
		if err != nil {
			fmt.Println("failed to write screenshot:", err)
		}
	}
	if pressed('n') {
		s.shotCount++
		fname := fmt.Sprintf("%s.%04d.thumb.png", s.shotPrefix, s.shotCount)
		err := writeFileWith(fname, func(w io.Writer) error { return png.Encode(w, s.fb.Thumbnail(320, 240)) })
		if err != nil {
			fmt.Println("failed to write thumbnail:", err)
		}
	}

	if pressed('m') {
		s.snapshotMode = 'm'
	} else if pressed('l') {
		s.snapshotMode = 'l'
	}
	numDown := 'x'
	for r := '1'; r <= '9'; r++ {
		if pressed(r) {
			numDown = r
			break
		}
	}
	if numDown == 'x' {
		return
	}

	snapFilename := s.snapshotPrefix + string(numDown)
	if s.snapshotMode == 'm' {
		s.snapshotMode = 'x'
		snapshot, err := s.dev.MakeSnapshot()
		if err == nil {
			err = os.WriteFile(snapFilename, snapshot, os.FileMode(0644))
		}
		if err != nil {
			fmt.Println("failed to save snapshot:", err)
		}
	} else if s.snapshotMode == 'l' {
		s.snapshotMode = 'x'
		snapBytes, err := os.ReadFile(snapFilename)
		if err == nil {
			err = s.dev.LoadSnapshot(snapBytes)
		}
		if err != nil {
			fmt.Println("failed to load snapshot:", err)
		}
	}
}

// runConsole executes whatever monitor commands are waiting
func (s *sessionState) runConsole() {
	if s.console == nil {
		return
	}
	for {
		select {
		case line, ok := <-s.console.Lines:
			if !ok {
				s.console = nil
				if s.headless {
					s.quit = true
				}
				return
			}
			if strings.TrimSpace(line) == "quit" {
				s.quit = true
				return
			}
			if err := s.monitor.Exec(line); err != nil {
				fmt.Fprintln(s.console, err)
			}
		default:
			return
		}
	}
}

// exitCleanup runs before dieIf and assert end the process
var exitCleanup func()

// runOnce returns a func that runs the funcs in *fns, last added first,
// the first time it is called. Later calls do nothing.
func runOnce(fns *[]func()) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(*fns) - 1; i >= 0; i-- {
				(*fns)[i]()
			}
		})
	}
}

func writeFileWith(fname string, write func(io.Writer) error) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func assert(test bool, msg string) {
	if !test {
		fmt.Println(msg)
		if exitCleanup != nil {
			exitCleanup()
		}
		os.Exit(1)
	}
}

func dieIf(err error) {
	if err != nil {
		fmt.Println(err)
		if exitCleanup != nil {
			exitCleanup()
		}
		os.Exit(1)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
