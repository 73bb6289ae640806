package cg14

import (
	"bytes"
	"compress/gzip"
	"errors"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	d, _, _ := newTestDevice(t)
	d.WriteCtrl(regMCR, Byte, mcrPixMode16)
	d.WriteCtrl(regXLUT+9, Byte, xlutCLUT1)
	d.WriteCtrl(regCLUT2+4, Word, 0x123456)
	programTiming(d, 300, 44, 800, 32)
	d.Refresh()
	d.WriteVRAM(0x1234, Word, 0xdeadbeef)

	snap, err := d.MakeSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	other, surf, _ := newTestDevice(t)
	if err := other.LoadSnapshot(snap); err != nil {
		t.Fatal(err)
	}
	if w, h := other.Geometry(); w != 1024 || h != 768 {
		t.Errorf("geometry: got %dx%d, want 1024x768", w, h)
	}
	if surf.Width != 1024 || surf.Height != 768 {
		t.Errorf("surface not resized to the snapshot: %dx%d", surf.Width, surf.Height)
	}
	if other.st.Ctrl != d.st.Ctrl || other.st.XLUT != d.st.XLUT || other.st.CLUT2 != d.st.CLUT2 {
		t.Errorf("registers differ after load")
	}
	if got := other.ReadVRAM(0x1234, Word); got != 0xdeadbeef {
		t.Errorf("vram: got %08x", got)
	}
	if !other.IsDirty() {
		t.Errorf("loaded board should repaint")
	}
	if other.Surface() != Surface(surf) {
		t.Errorf("load replaced the surface")
	}
}

func TestSnapshotSizeMismatch(t *testing.T) {
	d, _, _ := newTestDevice(t)
	snap, err := d.MakeSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.VRAMSize = 1 << 20
	cfg.LogLevel = LogOff
	small, err := New(cfg, &Framebuffer{})
	if err != nil {
		t.Fatal(err)
	}
	if err := small.LoadSnapshot(snap); !errors.Is(err, ErrSnapshotMismatch) {
		t.Errorf("got %v, want ErrSnapshotMismatch", err)
	}
}

func TestSnapshotNewerVersion(t *testing.T) {
	d, _, _ := newTestDevice(t)
	buf := &bytes.Buffer{}
	w := gzip.NewWriter(buf)
	w.Write([]byte(`{"Version":99,"Info":"cg14 snapshot","State":{}}`))
	w.Close()

	if err := d.LoadSnapshot(buf.Bytes()); !errors.Is(err, ErrSnapshotVersion) {
		t.Errorf("got %v, want ErrSnapshotVersion", err)
	}
}

func TestSnapshotImpossibleGeometry(t *testing.T) {
	for _, geom := range [][2]int{{1 << 31, 1 << 31}, {maxWidth + 4, 480}, {640, maxHeight + 1}} {
		d, _, _ := newTestDevice(t)
		d.st.Width, d.st.Height = geom[0], geom[1]
		snap, err := d.MakeSnapshot()
		if err != nil {
			t.Fatal(err)
		}

		other, surf, _ := newTestDevice(t)
		if err := other.LoadSnapshot(snap); !errors.Is(err, ErrSnapshotMismatch) {
			t.Errorf("%dx%d: got %v, want ErrSnapshotMismatch", geom[0], geom[1], err)
		}
		if w, h := other.Geometry(); w != 640 || h != 480 {
			t.Errorf("%dx%d: failed load changed geometry to %dx%d", geom[0], geom[1], w, h)
		}
		other.Invalidate()
		other.Refresh()
		if len(surf.presents) != 1 {
			t.Errorf("%dx%d: refresh after failed load: presents %v", geom[0], geom[1], surf.presents)
		}
	}
}

func TestPresentRegionStaysInPix(t *testing.T) {
	fb := &Framebuffer{Width: 1 << 20, Height: 1 << 20, Pix: make([]byte, 16)}
	fb.PresentRegion(0, 0, fb.Width, fb.Height)
	for i := 3; i < len(fb.Pix); i += 4 {
		if fb.Pix[i] != 0xff {
			t.Errorf("alpha at %d: got %02x, want ff", i, fb.Pix[i])
		}
	}
	if fb.Presents != 1 {
		t.Errorf("presents: got %d, want 1", fb.Presents)
	}

	fb.Resize(-1, 5)
	if fb.Width != 0 || len(fb.Pix) != 0 {
		t.Errorf("negative resize: got %dx%d with %d bytes", fb.Width, fb.Height, len(fb.Pix))
	}
}

func TestSnapshotGarbage(t *testing.T) {
	d, _, _ := newTestDevice(t)
	d.WriteCtrl(regMCR, Byte, 0x30)
	if err := d.LoadSnapshot([]byte("not a snapshot")); err == nil {
		t.Errorf("garbage loaded without error")
	}
	if d.st.Ctrl.MCR != 0x30 {
		t.Errorf("failed load clobbered state")
	}
}
