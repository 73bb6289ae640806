package platform

import (
	"image"
	"sync"
)

// WindowState contains what the window loop and program proper both need to touch
type WindowState struct {
	// a Mutex that must be held when reading or writing in WindowState
	Mutex sync.Mutex

	// the Width of the framebuffer
	Width int
	// the Height of the framebuffer
	Height int

	// Pix is the raw RGBA bytes of the framebuffer
	Pix []byte

	// Frames counts PostFrame calls
	Frames int

	runeMap dumbMap

	// keySource, if set, answers CharIsDown instead of runeMap
	keySource func(rune) bool
	// drawHook, if set, tells the window loop a new frame is waiting.
	// It is called with Mutex held.
	drawHook func()
	// quitHook, if set, asks the window loop to exit
	quitHook func()
	closed   chan struct{}
}

func newWindowState(w, h int) *WindowState {
	return &WindowState{
		Width:  w,
		Height: h,
		Pix:    make([]byte, 4*w*h),
		closed: make(chan struct{}),
	}
}

// CharIsDown returns the key state for that char
func (s *WindowState) CharIsDown(c rune) bool {
	if s.keySource != nil {
		return s.keySource(c)
	}
	return s.runeMap.Get(int32(c))
}

func (s *WindowState) setChar(c rune, down bool) {
	s.runeMap.Set(int32(c), down)
}

// PostFrame copies an RGBA frame in for the window loop to show. The
// frame may be a different size than the last one.
func (s *WindowState) PostFrame(w, h int, pix []byte) {
	s.Mutex.Lock()
	defer s.Mutex.Unlock()
	if w != s.Width || h != s.Height || len(s.Pix) != 4*w*h {
		s.Width, s.Height = w, h
		s.Pix = make([]byte, 4*w*h)
	}
	copy(s.Pix, pix)
	s.Frames++
	if s.drawHook != nil {
		s.drawHook()
	}
}

// Closed is closed once the window goes away
func (s *WindowState) Closed() <-chan struct{} {
	return s.closed
}

// Quit closes the window. The window loop may end the process.
func (s *WindowState) Quit() {
	s.close()
	if s.quitHook != nil {
		s.quitHook()
	}
}

func (s *WindowState) close() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
}

func frameImage(w, h int, pix []byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img
}

// copyFrame blits src (sw x sh RGBA) into dst (dw x dh RGBA) at the top
// left, cropping what doesn't fit and blacking out the rest.
func copyFrame(dst []byte, dw, dh int, src []byte, sw, sh int) {
	for y := 0; y < dh; y++ {
		row := dst[y*dw*4 : (y+1)*dw*4]
		n := 0
		if y < sh {
			n = copy(row, src[y*sw*4:y*sw*4+min(sw, dw)*4])
		}
		for i := n; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = 0, 0, 0, 0xff
		}
	}
}

type dumbMap struct {
	slots [256]dumbKeyVal
}
type dumbKeyVal struct {
	next *dumbKeyVal
	key  int32
	val  bool
}

func (m *dumbMap) Set(k int32, v bool) {
	slot := &m.slots[k&0xff]
	for {
		if slot.key == k || slot.key == 0 {
			slot.key = k
			slot.val = v
			return
		}
		if slot.next == nil {
			slot.next = &dumbKeyVal{key: k, val: v}
			return
		}
		slot = slot.next
	}
}
func (m *dumbMap) Get(k int32) bool {
	for slot := &m.slots[k&0xff]; slot != nil; slot = slot.next {
		if slot.key == k {
			return slot.val
		}
	}
	return false
}
