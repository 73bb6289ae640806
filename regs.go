package cg14

// Control region layout, offsets from the region base
const (
	regMCR       = 0x0000 // master control
	regPPR       = 0x0001 // packed pixel
	regStatus    = 0x0004 // monitor sense in bits 1..3
	regHWVersion = 0x0006
	regClock     = 0x0007 // pixel clock control

	regHBlankStart = 0x0018
	regHBlankClear = 0x001a
	regHSyncStart  = 0x001c
	regHSyncClear  = 0x001e
	regCSyncClear  = 0x0020
	regVBlankStart = 0x0022
	regVBlankClear = 0x0024
	regVSyncStart  = 0x0026
	regVSyncClear  = 0x0028

	regDAC   = 0x2000 // four sub registers 0x100 apart
	regXLUT  = 0x3000
	regCLUT1 = 0x4000
	regCLUT2 = 0x5000
)

// RegisterOffsets names the control region offsets, for scripts and tools
func RegisterOffsets() map[string]uint64 {
	return map[string]uint64{
		"MCR":          regMCR,
		"PPR":          regPPR,
		"STATUS":       regStatus,
		"HWVERSION":    regHWVersion,
		"CLOCK":        regClock,
		"HBLANK_START": regHBlankStart,
		"HBLANK_CLEAR": regHBlankClear,
		"VBLANK_START": regVBlankStart,
		"VBLANK_CLEAR": regVBlankClear,
		"DAC":          regDAC,
		"XLUT":         regXLUT,
		"CLUT1":        regCLUT1,
		"CLUT2":        regCLUT2,
	}
}

// WindowOffsets names the vram window offsets
func WindowOffsets() map[string]uint64 {
	return map[string]uint64{
		"WIN_DIRECT": windowDirect,
		"WIN_BGR":    windowBGR,
		"WIN_X16":    windowX16,
		"WIN_X32":    windowX32,
	}
}

// MCR bits 4..5 pick the pixel size
const (
	mcrPixModeMask = 0x30
	mcrPixMode16   = 0x20
	mcrPixMode32   = 0x30
)

// XLUT entries choose per pixel how its color is found
const (
	xlutTrueColor = 0x00
	xlutCLUT1     = 0x40
)

type ctrlRegs struct {
	MCR byte
	PPR byte
}

func (r *ctrlRegs) pixMode() int {
	switch r.MCR & mcrPixModeMask {
	case mcrPixMode32:
		return 32
	case mcrPixMode16:
		return 16
	}
	return 8
}

// Only the upper nibble of ppr is wired, and it is what 8-bit pixels
// use in place of an xlut entry.
func (r *ctrlRegs) writePPR(val byte) {
	r.PPR = val & 0xf0
}

type timingRegs struct {
	HBlankStart uint16
	HBlankClear uint16
	VBlankStart uint16
	VBlankClear uint16
}

// the largest geometry the 16 bit blanking counters can describe
const (
	maxWidth  = 4 * 0xffff
	maxHeight = 0xffff
)

// geometry is what the blanking counters program. The horizontal
// counters tick once per four pixels.
func (t *timingRegs) geometry() (width, height int) {
	width = 4 * (int(t.HBlankStart) - int(t.HBlankClear))
	height = int(t.VBlankStart) - int(t.VBlankClear)
	return width, height
}

func (d *Device) readStatus() byte {
	return d.cfg.MonitorID << 1
}

func (d *Device) writeXLUT(idx byte, val byte) {
	if d.st.XLUT[idx] == val {
		return
	}
	d.st.Dirty = true
	d.st.XLUT[idx] = val
	if val != xlutTrueColor && val != xlutCLUT1 {
		d.log.errorf("writeb xlut[%d] = %02x\n", idx, val)
	}
}
