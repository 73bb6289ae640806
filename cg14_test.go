package cg14

import (
	"bytes"
	"errors"
	"testing"
)

// recordingSurface is a Framebuffer that also remembers what the device
// asked of it
type recordingSurface struct {
	Framebuffer
	resizes  [][2]int
	presents [][4]int
}

func (s *recordingSurface) Resize(w, h int) {
	s.Framebuffer.Resize(w, h)
	s.resizes = append(s.resizes, [2]int{w, h})
}

func (s *recordingSurface) PresentRegion(x, y, w, h int) {
	s.Framebuffer.PresentRegion(x, y, w, h)
	s.presents = append(s.presents, [4]int{x, y, w, h})
}

func newTestDevice(t *testing.T) (*Device, *recordingSurface, *bytes.Buffer) {
	t.Helper()
	logBuf := &bytes.Buffer{}
	cfg := DefaultConfig()
	cfg.LogLevel = LogDebug
	cfg.LogOutput = logBuf
	surf := &recordingSurface{}
	d, err := New(cfg, surf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, surf, logBuf
}

func TestNewDefaults(t *testing.T) {
	d, surf, _ := newTestDevice(t)

	if w, h := d.Geometry(); w != 640 || h != 480 {
		t.Errorf("geometry: got %dx%d, want 640x480", w, h)
	}
	if len(surf.resizes) != 1 || surf.resizes[0] != [2]int{640, 480} {
		t.Errorf("resizes: got %v, want one 640x480", surf.resizes)
	}
	if len(d.VRAM()) != 4<<20 {
		t.Errorf("vram: got %d bytes, want %d", len(d.VRAM()), 4<<20)
	}
	if d.IsDirty() {
		t.Errorf("fresh device should not be dirty")
	}
}

func TestNewRejectsBadVRAM(t *testing.T) {
	for _, size := range []uint32{0, 3, 3 << 20, 32 << 20} {
		cfg := DefaultConfig()
		cfg.VRAMSize = size
		if _, err := New(cfg, &Framebuffer{}); !errors.Is(err, ErrVRAMSize) {
			t.Errorf("size %d: got %v, want ErrVRAMSize", size, err)
		}
	}
	if _, err := New(DefaultConfig(), nil); err == nil {
		t.Errorf("nil surface: expected an error")
	}
}

func TestRefreshCleanIsNoop(t *testing.T) {
	d, surf, _ := newTestDevice(t)
	d.Refresh()
	if len(surf.presents) != 0 {
		t.Errorf("clean refresh presented %v", surf.presents)
	}
}

func TestRefreshPresentsAndClears(t *testing.T) {
	d, surf, _ := newTestDevice(t)
	d.Invalidate()
	d.Refresh()
	if len(surf.presents) != 1 || surf.presents[0] != [4]int{0, 0, 640, 480} {
		t.Errorf("presents: got %v, want [0 0 640 480]", surf.presents)
	}
	if d.IsDirty() {
		t.Errorf("dirty not cleared after refresh")
	}
	d.Refresh()
	if len(surf.presents) != 1 {
		t.Errorf("second refresh should not present, got %d presents", len(surf.presents))
	}
}

func programTiming(d *Device, hbs, hbc, vbs, vbc uint32) {
	d.WriteCtrl(regHBlankStart, Half, hbs)
	d.WriteCtrl(regHBlankClear, Half, hbc)
	d.WriteCtrl(regVBlankStart, Half, vbs)
	d.WriteCtrl(regVBlankClear, Half, vbc)
}

func TestResizeFromTiming(t *testing.T) {
	d, surf, _ := newTestDevice(t)

	// 4*(300-44) = 1024, 800-32 = 768
	programTiming(d, 300, 44, 800, 32)
	if w, h := d.Geometry(); w != 640 || h != 480 {
		t.Errorf("register writes changed geometry to %dx%d before refresh", w, h)
	}
	d.Refresh()

	if w, h := d.Geometry(); w != 1024 || h != 768 {
		t.Errorf("geometry: got %dx%d, want 1024x768", w, h)
	}
	if got := surf.resizes[len(surf.resizes)-1]; got != [2]int{1024, 768} {
		t.Errorf("last resize: got %v, want [1024 768]", got)
	}
	if len(surf.presents) != 1 || surf.presents[0] != [4]int{0, 0, 1024, 768} {
		t.Errorf("presents: got %v", surf.presents)
	}
	if d.st.SizeChanged {
		t.Errorf("sizeChanged not cleared")
	}
}

func TestResizeDegenerateKeepsGeometry(t *testing.T) {
	d, surf, _ := newTestDevice(t)
	programTiming(d, 10, 20, 800, 32)
	d.Refresh()

	if w, h := d.Geometry(); w != 640 || h != 480 {
		t.Errorf("geometry: got %dx%d, want 640x480 kept", w, h)
	}
	if len(surf.resizes) != 1 {
		t.Errorf("resizes: got %v, want only the attach-time one", surf.resizes)
	}
	if d.st.SizeChanged {
		t.Errorf("sizeChanged not cleared")
	}
	if len(surf.presents) != 0 {
		t.Errorf("degenerate timing should not force a repaint")
	}
}

func TestResizeSameGeometryNoResize(t *testing.T) {
	d, surf, _ := newTestDevice(t)
	programTiming(d, 200, 40, 500, 20)
	d.Refresh()
	if len(surf.resizes) != 1 {
		t.Errorf("resizes: got %v, want only the attach-time one", surf.resizes)
	}
}

func TestRefreshRefusesNon32bpp(t *testing.T) {
	d, surf, logBuf := newTestDevice(t)
	surf.Depth = 16
	d.Invalidate()
	d.Refresh()

	if len(surf.presents) != 0 {
		t.Errorf("16bpp surface got presented")
	}
	if !d.IsDirty() {
		t.Errorf("dirty should survive a refused refresh")
	}
	if !bytes.Contains(logBuf.Bytes(), []byte("bpp (16) != 32")) {
		t.Errorf("missing bpp diagnostic, log: %q", logBuf.String())
	}

	surf.Depth = 0
	d.Refresh()
	if len(surf.presents) != 1 {
		t.Errorf("refresh did not retry once the surface was 32bpp")
	}
}

func TestRefreshZeroGeometryNoop(t *testing.T) {
	d, surf, _ := newTestDevice(t)
	d.st.Width = 0
	d.Invalidate()
	d.Refresh()
	if len(surf.presents) != 0 {
		t.Errorf("zero width frame got presented")
	}
}

func TestSizeString(t *testing.T) {
	for size, want := range map[Size]string{Byte: "b", Half: "w", Word: "l", Size(3): "Size(3)"} {
		if got := size.String(); got != want {
			t.Errorf("Size(%d): got %q, want %q", int(size), got, want)
		}
	}
}
