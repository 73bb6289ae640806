package cg14

// decodeEntry is one row of a decode table. An address hits the row when
// addr&mask == match. Rows are tried top to bottom and every table ends
// in a catch-all row, so each access lands somewhere.
type decodeEntry struct {
	name  string
	mask  uint64
	match uint64
	read  func(d *Device, addr uint64) uint32
	write func(d *Device, addr uint64, val uint32)
}

type decodeTable []decodeEntry

func (t decodeTable) lookup(addr uint64) *decodeEntry {
	for i := range t {
		if addr&t[i].mask == t[i].match {
			return &t[i]
		}
	}
	return nil
}

// sizedTables holds one table per access width
type sizedTables struct {
	b, w, l decodeTable
}

func (s *sizedTables) forSize(size Size) decodeTable {
	switch size {
	case Byte:
		return s.b
	case Half:
		return s.w
	case Word:
		return s.l
	}
	return nil
}

func exact(off uint64) (mask, match uint64) {
	return ctrlRegionSize - 1, off
}

// dirtying marks the frame stale before running the handler, whatever
// the handler ends up doing with the value.
func dirtying(fn func(d *Device, addr uint64, val uint32)) func(d *Device, addr uint64, val uint32) {
	return func(d *Device, addr uint64, val uint32) {
		d.st.Dirty = true
		fn(d, addr, val)
	}
}

func ctrlOffset(addr uint64) uint64 { return addr & (ctrlRegionSize - 1) }

func readZero(d *Device, addr uint64) uint32 { return 0 }

func entryAt(name string, off uint64) decodeEntry {
	e := decodeEntry{name: name}
	e.mask, e.match = exact(off)
	return e
}

func withRead(e decodeEntry, fn func(d *Device, addr uint64) uint32) decodeEntry {
	e.read = fn
	return e
}

func withWrite(e decodeEntry, fn func(d *Device, addr uint64, val uint32)) decodeEntry {
	e.write = fn
	return e
}

var ctrlReads = sizedTables{
	b: decodeTable{
		withRead(entryAt("mcr", regMCR), func(d *Device, addr uint64) uint32 {
			return uint32(d.st.Ctrl.MCR)
		}),
		withRead(entryAt("ppr", regPPR), func(d *Device, addr uint64) uint32 {
			return uint32(d.st.Ctrl.PPR)
		}),
		withRead(entryAt("status", regStatus), func(d *Device, addr uint64) uint32 {
			return uint32(d.readStatus())
		}),
		withRead(entryAt("hwversion", regHWVersion), func(d *Device, addr uint64) uint32 {
			return uint32(d.cfg.HWVersion)
		}),
		{name: "unmapped", read: readZero},
	},
	w: decodeTable{
		withRead(entryAt("hblank_start", regHBlankStart), func(d *Device, addr uint64) uint32 {
			return uint32(d.st.Timing.HBlankStart)
		}),
		withRead(entryAt("hblank_clear", regHBlankClear), func(d *Device, addr uint64) uint32 {
			return uint32(d.st.Timing.HBlankClear)
		}),
		withRead(entryAt("vblank_start", regVBlankStart), func(d *Device, addr uint64) uint32 {
			return uint32(d.st.Timing.VBlankStart)
		}),
		withRead(entryAt("vblank_clear", regVBlankClear), func(d *Device, addr uint64) uint32 {
			return uint32(d.st.Timing.VBlankClear)
		}),
		{name: "unmapped", read: readZero},
	},
	l: decodeTable{
		{name: "clut1", mask: 0xfc00, match: regCLUT1, read: func(d *Device, addr uint64) uint32 {
			return d.st.CLUT1[(addr&0x3ff)>>2]
		}},
		{name: "clut2", mask: 0xfc00, match: regCLUT2, read: func(d *Device, addr uint64) uint32 {
			return d.st.CLUT2[(addr&0x3ff)>>2]
		}},
		{name: "unmapped", read: func(d *Device, addr uint64) uint32 {
			d.log.errorf("readl %08x from reg %x\n", 0, ctrlOffset(addr))
			return 0
		}},
	},
}

func ignoreWrite(d *Device, addr uint64, val uint32) {}

func timingWrite(field func(t *timingRegs) *uint16, resizes bool) func(d *Device, addr uint64, val uint32) {
	return func(d *Device, addr uint64, val uint32) {
		*field(&d.st.Timing) = uint16(val)
		if resizes {
			d.st.SizeChanged = true
		}
	}
}

var ctrlWrites = sizedTables{
	b: decodeTable{
		{name: "dac", mask: 0xfcff, match: regDAC, write: func(d *Device, addr uint64, val uint32) {
			d.st.DAC.write(d.log, uint32(addr&0x300)>>8, byte(val))
		}},
		{name: "xlut", mask: 0xff00, match: regXLUT, write: func(d *Device, addr uint64, val uint32) {
			d.writeXLUT(byte(addr), byte(val))
		}},
		withWrite(entryAt("mcr", regMCR), dirtying(func(d *Device, addr uint64, val uint32) {
			d.st.Ctrl.MCR = byte(val)
		})),
		withWrite(entryAt("ppr", regPPR), dirtying(func(d *Device, addr uint64, val uint32) {
			d.st.Ctrl.writePPR(byte(val))
		})),
		withWrite(entryAt("clock", regClock), dirtying(func(d *Device, addr uint64, val uint32) {
			d.log.debugf("writeb %02x to clock control\n", val)
		})),
		{name: "unmapped", write: dirtying(func(d *Device, addr uint64, val uint32) {
			d.log.errorf("writeb %02x to reg %x\n", val, ctrlOffset(addr))
		})},
	},
	w: decodeTable{
		withWrite(entryAt("hblank_start", regHBlankStart),
			timingWrite(func(t *timingRegs) *uint16 { return &t.HBlankStart }, false)),
		withWrite(entryAt("hblank_clear", regHBlankClear),
			timingWrite(func(t *timingRegs) *uint16 { return &t.HBlankClear }, true)),
		withWrite(entryAt("vblank_start", regVBlankStart),
			timingWrite(func(t *timingRegs) *uint16 { return &t.VBlankStart }, false)),
		withWrite(entryAt("vblank_clear", regVBlankClear),
			timingWrite(func(t *timingRegs) *uint16 { return &t.VBlankClear }, true)),
		withWrite(entryAt("hsync_start", regHSyncStart), ignoreWrite),
		withWrite(entryAt("hsync_clear", regHSyncClear), ignoreWrite),
		withWrite(entryAt("csync_clear", regCSyncClear), ignoreWrite),
		withWrite(entryAt("vsync_start", regVSyncStart), ignoreWrite),
		withWrite(entryAt("vsync_clear", regVSyncClear), ignoreWrite),
		{name: "unmapped", write: ignoreWrite},
	},
	l: decodeTable{
		{name: "clut1", mask: 0xfc00, match: regCLUT1, write: dirtying(func(d *Device, addr uint64, val uint32) {
			d.st.CLUT1[(addr&0x3ff)>>2] = val
		})},
		{name: "clut2", mask: 0xfc00, match: regCLUT2, write: dirtying(func(d *Device, addr uint64, val uint32) {
			d.st.CLUT2[(addr&0x3ff)>>2] = val
		})},
		{name: "unmapped", write: dirtying(func(d *Device, addr uint64, val uint32) {
			d.log.errorf("writel %08x to reg %x\n", val, ctrlOffset(addr))
		})},
	},
}

// ReadCtrl performs a guest read of the register region. Offsets are
// taken modulo the region size, so either absolute bus addresses or
// region offsets work.
func (d *Device) ReadCtrl(addr uint64, size Size) uint32 {
	e := ctrlReads.forSize(size).lookup(addr)
	if e == nil {
		d.log.errorf("read%v from reg %x: bad access size\n", size, ctrlOffset(addr))
		return 0
	}
	val := e.read(d, addr)
	switch size {
	case Byte:
		d.log.infof("readb %02x from reg %x\n", val, ctrlOffset(addr))
	case Half:
		d.log.infof("readw 0x%08x from reg %x\n", val, ctrlOffset(addr))
	}
	return val
}

// WriteCtrl performs a guest write to the register region
func (d *Device) WriteCtrl(addr uint64, size Size, val uint32) {
	e := ctrlWrites.forSize(size).lookup(addr)
	if e == nil {
		d.log.errorf("write%v %08x to reg %x: bad access size\n", size, val, ctrlOffset(addr))
		return
	}
	if size == Half {
		d.log.infof("writew %04x to reg %x\n", val, ctrlOffset(addr))
	}
	e.write(d, addr, val)
}

// CtrlRegisterName names the register a control access would hit, which
// is handy for the monitor and for tracing.
func CtrlRegisterName(addr uint64, size Size) string {
	name := "unmapped"
	for _, tables := range []*sizedTables{&ctrlReads, &ctrlWrites} {
		if e := tables.forSize(size).lookup(addr); e != nil && e.name != "unmapped" {
			name = e.name
		}
	}
	return name
}
