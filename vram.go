package cg14

// A[25:24] of a vram address pick one of four views of the same memory
const (
	vramWindowMask = 0x3000000

	windowDirect = 0x0000000 // one byte per pixel byte, as stored
	windowBGR    = 0x1000000 // not emulated
	windowX16    = 0x2000000 // two way interleave, 16 bit pixels
	windowX32    = 0x3000000 // four way interleave, 32 bit pixels
)

// directOffset, x16Offset and x32Offset map a window address to the
// storage offset it reaches. They only depend on the address and the
// vram mask.
func directOffset(addr uint64, mask uint32) uint32 {
	return uint32(addr) & mask
}

func x16Offset(addr uint64, mask uint32) uint32 {
	return (uint32(addr<<1) & mask) + uint32(addr>>23)&1
}

func x32Offset(addr uint64, mask uint32) uint32 {
	return (uint32(addr<<2) & mask) + uint32(addr>>22)&3
}

var windowOffsets = map[uint64]func(addr uint64, mask uint32) uint32{
	windowDirect: directOffset,
	windowX16:    x16Offset,
	windowX32:    x32Offset,
}

// StorageOffset says which vram byte a vram address reaches. ok is false
// for the unemulated window.
func (d *Device) StorageOffset(addr uint64) (offset uint32, ok bool) {
	fn, ok := windowOffsets[addr&vramWindowMask]
	if !ok {
		return 0, false
	}
	return fn(addr, d.st.VRAMMask), true
}

// touchVRAM marks the frame stale if offset lies in the visible area
func (d *Device) touchVRAM(offset uint32) {
	if uint64(offset) < 4*uint64(d.st.Width)*uint64(d.st.Height) {
		d.st.Dirty = true
	}
}

func windowEntry(name string, window uint64) decodeEntry {
	return decodeEntry{name: name, mask: vramWindowMask, match: window}
}

func readVRAMByte(d *Device, addr uint64) uint32 {
	off, _ := d.StorageOffset(addr)
	return uint32(d.st.VRAM[off])
}

func writeVRAMByte(d *Device, addr uint64, val uint32) {
	off, _ := d.StorageOffset(addr)
	d.st.VRAM[off] = byte(val)
	d.touchVRAM(off)
}

var vramReads = sizedTables{
	b: decodeTable{
		withRead(windowEntry("direct", windowDirect), readVRAMByte),
		withRead(windowEntry("bgr", windowBGR), readZero),
		withRead(windowEntry("x16", windowX16), readVRAMByte),
		withRead(windowEntry("x32", windowX32), readVRAMByte),
	},
	w: decodeTable{
		{name: "unsupported", read: func(d *Device, addr uint64) uint32 {
			d.log.errorf("readw %04x from vram %x\n", 0, uint32(addr))
			return 0
		}},
	},
	l: decodeTable{
		withRead(windowEntry("direct", windowDirect), func(d *Device, addr uint64) uint32 {
			return loadBE32(d.st.VRAM, directOffset(addr, d.st.VRAMMask), d.st.VRAMMask)
		}),
		{name: "unsupported", read: func(d *Device, addr uint64) uint32 {
			d.log.errorf("readl %08x from vram %x\n", 0, uint32(addr))
			return 0
		}},
	},
}

var vramWrites = sizedTables{
	b: decodeTable{
		withWrite(windowEntry("direct", windowDirect), writeVRAMByte),
		withWrite(windowEntry("x16", windowX16), writeVRAMByte),
		withWrite(windowEntry("x32", windowX32), writeVRAMByte),
		{name: "unsupported", write: func(d *Device, addr uint64, val uint32) {
			d.log.errorf("writeb %02x to vram %x\n", val, uint32(addr))
		}},
	},
	w: decodeTable{
		{name: "unsupported", write: dirtying(func(d *Device, addr uint64, val uint32) {
			d.log.errorf("writew %04x to vram %x\n", val, uint32(addr))
		})},
	},
	l: decodeTable{
		withWrite(windowEntry("direct", windowDirect), func(d *Device, addr uint64, val uint32) {
			off := directOffset(addr, d.st.VRAMMask)
			storeBE32(d.st.VRAM, off, d.st.VRAMMask, val)
			d.touchVRAM(off)
		}),
		{name: "unsupported", write: func(d *Device, addr uint64, val uint32) {
			d.log.errorf("writel %08x to vram %x\n", val, uint32(addr))
		}},
	},
}

// ReadVRAM performs a guest read of the vram region
func (d *Device) ReadVRAM(addr uint64, size Size) uint32 {
	e := vramReads.forSize(size).lookup(addr)
	if e == nil {
		d.log.errorf("read%v from vram %x: bad access size\n", size, uint32(addr))
		return 0
	}
	val := e.read(d, addr)
	if size == Byte {
		d.log.infof("readb %02x from vram %x\n", val, uint32(addr))
	}
	return val
}

// WriteVRAM performs a guest write to the vram region
func (d *Device) WriteVRAM(addr uint64, size Size, val uint32) {
	e := vramWrites.forSize(size).lookup(addr)
	if e == nil {
		d.log.errorf("write%v %08x to vram %x: bad access size\n", size, val, uint32(addr))
		return
	}
	e.write(d, addr, val)
}
