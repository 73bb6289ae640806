package cg14

import (
	"errors"
	"fmt"
)

// Surface is the host display the device paints into
type Surface interface {
	// Resize changes the surface geometry. Data and Linesize may change
	// underneath it.
	Resize(width, height int)
	// PresentRegion says a rectangle of Data is finished and can be shown
	PresentRegion(x, y, w, h int)
	BitsPerPixel() int
	// BlueFirst reports whether a 32-bit pixel word is laid out 0x00BBGGRR
	// instead of 0x00RRGGBB
	BlueFirst() bool
	Data() []byte
	Linesize() int
}

// Size is the width of one bus access
type Size int

// Access widths the bus can issue
const (
	Byte Size = 1
	Half Size = 2
	Word Size = 4
)

func (s Size) String() string {
	switch s {
	case Byte:
		return "b"
	case Half:
		return "w"
	case Word:
		return "l"
	}
	return fmt.Sprintf("Size(%d)", int(s))
}

type devState struct {
	VRAM     []byte
	VRAMMask uint32

	Width       int
	Height      int
	Dirty       bool
	SizeChanged bool

	Ctrl   ctrlRegs
	Timing timingRegs
	DAC    adv7152

	XLUT  [256]byte
	CLUT1 [256]uint32
	CLUT2 [256]uint32
}

// Device is one cg14 board. The owner drives every call from one
// goroutine; nothing in here locks.
type Device struct {
	st      devState
	cfg     Config
	surface Surface
	log     *diagLog
}

// New attaches a board with cfg to a host surface and sizes it to 640x480
func New(cfg Config, surface Surface) (*Device, error) {
	if err := checkVRAMSize(cfg.VRAMSize); err != nil {
		return nil, err
	}
	if surface == nil {
		return nil, errors.New("cg14: nil surface")
	}
	d := &Device{
		cfg:     cfg,
		surface: surface,
		log:     newDiagLog(cfg.LogLevel, cfg.LogOutput, "CG14: "),
	}
	d.st.VRAM = make([]byte, cfg.VRAMSize)
	d.st.VRAMMask = cfg.VRAMSize - 1
	d.st.Width = defaultWidth
	d.st.Height = defaultHeight
	d.surface.Resize(d.st.Width, d.st.Height)
	return d, nil
}

// Config returns the attach-time settings
func (d *Device) Config() Config { return d.cfg }

// Surface returns the host surface the board paints into
func (d *Device) Surface() Surface { return d.surface }

// Geometry is the current display size in pixels
func (d *Device) Geometry() (width, height int) {
	return d.st.Width, d.st.Height
}

// IsDirty reports whether the next Refresh will repaint
func (d *Device) IsDirty() bool { return d.st.Dirty }

// Invalidate forces a full repaint on the next Refresh
func (d *Device) Invalidate() { d.st.Dirty = true }

// VRAM exposes video memory directly, e.g. for loaders and dumps
func (d *Device) VRAM() []byte { return d.st.VRAM }

// Refresh is called once per host frame. It picks up a pending geometry
// change, then repaints the whole surface if anything changed since the
// last frame.
func (d *Device) Refresh() {
	if d.st.SizeChanged {
		d.st.SizeChanged = false
		w, h := d.st.Timing.geometry()
		if (w != d.st.Width || h != d.st.Height) && w > 0 && h > 0 {
			d.st.Width, d.st.Height = w, h
			d.surface.Resize(w, h)
			d.st.Dirty = true
		}
	}

	if !d.st.Dirty || d.st.Width == 0 || d.st.Height == 0 {
		return
	}

	if bpp := d.surface.BitsPerPixel(); bpp != 32 {
		d.log.errorf("cg14_update: FIXME: bpp (%d) != 32, linesize %d\n", bpp, d.surface.Linesize())
		return
	}

	d.render(d.surface.Data(), d.surface.Linesize(), d.surface.BlueFirst())
	d.surface.PresentRegion(0, 0, d.st.Width, d.st.Height)
	d.st.Dirty = false
}
