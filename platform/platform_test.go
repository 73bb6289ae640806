package platform

import (
	"bytes"
	"image"
	"strings"
	"testing"
)

func TestDumbMap(t *testing.T) {
	var m dumbMap
	m.Set('a', true)
	m.Set('a'+256, true) // same slot
	m.Set('a'+512, false)
	if !m.Get('a') || !m.Get('a'+256) || m.Get('a'+512) {
		t.Errorf("chained keys: got %v %v %v", m.Get('a'), m.Get('a'+256), m.Get('a'+512))
	}
	m.Set('a', false)
	if m.Get('a') || !m.Get('a'+256) {
		t.Errorf("clearing the head key broke the chain")
	}
	if m.Get('z') {
		t.Errorf("unset key reads as down")
	}
}

func TestPostFrameResizes(t *testing.T) {
	s := newWindowState(2, 2)
	hooked := 0
	s.drawHook = func() { hooked++ }

	s.PostFrame(3, 1, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	if s.Width != 3 || s.Height != 1 || len(s.Pix) != 12 {
		t.Errorf("got %dx%d with %d bytes", s.Width, s.Height, len(s.Pix))
	}
	if s.Pix[11] != 12 || hooked != 1 || s.Frames != 1 {
		t.Errorf("frame not copied or hook not called")
	}
}

func TestCopyFrame(t *testing.T) {
	// 3x1 source into a 2x2 window: cropped on the right, padded below
	src := []byte{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}
	dst := make([]byte, 2*2*4)
	copyFrame(dst, 2, 2, src, 3, 1)
	want := []byte{1, 1, 1, 1, 2, 2, 2, 2, 0, 0, 0, 0xff, 0, 0, 0, 0xff}
	if !bytes.Equal(dst, want) {
		t.Errorf("got %v, want %v", dst, want)
	}
}

func TestFitScale(t *testing.T) {
	for _, tc := range []struct {
		win, frame     image.Point
		scale, centerX int
	}{
		{image.Point{1280, 960}, image.Point{640, 480}, 2, 0},
		{image.Point{1400, 960}, image.Point{640, 480}, 2, 60},
		{image.Point{600, 400}, image.Point{640, 480}, 1, -20},
		{image.Point{600, 400}, image.Point{}, 1, 0},
	} {
		scale, centerX := fitScale(tc.win, tc.frame)
		if scale != tc.scale || centerX != tc.centerX {
			t.Errorf("%v in %v: got %d,%d want %d,%d", tc.frame, tc.win, scale, centerX, tc.scale, tc.centerX)
		}
	}
}

func TestRunHeadless(t *testing.T) {
	ran := false
	err := Run("headless", Options{Width: 4, Height: 4}, func(s *WindowState) {
		ran = true
		if s.CharIsDown('p') {
			t.Errorf("headless key reads as down")
		}
		s.PostFrame(1, 1, []byte{1, 2, 3, 4})
	})
	if err != nil || !ran {
		t.Errorf("got %v, ran %v", err, ran)
	}
}

func TestRunRejects(t *testing.T) {
	if err := Run("sdl", Options{Width: 1, Height: 1}, nil); err == nil {
		t.Errorf("unknown frontend accepted")
	}
	if err := Run("headless", Options{}, nil); err == nil {
		t.Errorf("zero sized window accepted")
	}
}

func TestQuitClosesOnce(t *testing.T) {
	s := newWindowState(1, 1)
	quits := 0
	s.quitHook = func() { quits++ }
	s.Quit()
	s.close()
	select {
	case <-s.Closed():
	default:
		t.Errorf("Closed() still open after Quit")
	}
	if quits != 1 {
		t.Errorf("quit hook ran %d times", quits)
	}
}

func TestExitHookRunsCleanupFirst(t *testing.T) {
	var order []string
	opts := Options{OnExit: func() { order = append(order, "cleanup") }}
	exitHook(opts, func(code int) {
		if code != 0 {
			t.Errorf("exit code: got %d, want 0", code)
		}
		order = append(order, "exit")
	})()
	if strings.Join(order, ",") != "cleanup,exit" {
		t.Errorf("order: got %v, want cleanup then exit", order)
	}

	exited := false
	exitHook(Options{}, func(int) { exited = true })()
	if !exited {
		t.Errorf("exit not called without OnExit")
	}
}

func TestConsoleLines(t *testing.T) {
	out := &bytes.Buffer{}
	c := newConsole(strings.NewReader("rb 0\n\ngeom\n"), out)
	var got []string
	for line := range c.Lines {
		got = append(got, line)
	}
	if strings.Join(got, "|") != "rb 0||geom" {
		t.Errorf("lines: got %q", got)
	}
	c.Write([]byte("ok\n"))
	if out.String() != "ok\n" {
		t.Errorf("write: got %q", out.String())
	}
	if err := c.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}
