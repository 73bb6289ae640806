package cg14

func isPow2(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

// swapRB turns 0x00BBGGRR into 0x00RRGGBB (and back)
func swapRB(bgr uint32) uint32 {
	return bgr&0x00ff00 |
		(bgr&0x0000ff)<<16 |
		(bgr&0xff0000)>>16
}

// loadBE32 and storeBE32 mask every byte offset, so a word at the very
// end of vram wraps instead of running off the buffer.
func loadBE32(mem []byte, off, mask uint32) uint32 {
	return uint32(mem[off&mask])<<24 |
		uint32(mem[(off+1)&mask])<<16 |
		uint32(mem[(off+2)&mask])<<8 |
		uint32(mem[(off+3)&mask])
}

func storeBE32(mem []byte, off, mask uint32, val uint32) {
	mem[off&mask] = byte(val >> 24)
	mem[(off+1)&mask] = byte(val >> 16)
	mem[(off+2)&mask] = byte(val >> 8)
	mem[(off+3)&mask] = byte(val)
}

func putLE32(b []byte, val uint32) {
	b[0] = byte(val)
	b[1] = byte(val >> 8)
	b[2] = byte(val >> 16)
	b[3] = byte(val >> 24)
}
