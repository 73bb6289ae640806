package cg14

// pixelColor resolves one pixel to 0x00BBGGRR. x is the first stored
// byte of the pixel, which doubles as the clut index.
func (d *Device) pixelColor(xlut byte, x, r, g, b byte) uint32 {
	switch xlut {
	case xlutTrueColor:
		return uint32(b)<<16 | uint32(g)<<8 | uint32(r)
	case xlutCLUT1:
		return d.st.CLUT1[x]
	}
	return 0
}

// drawLine converts one scan line starting at vram offset src into
// 32-bit words in dst.
//
// Stored pixels are x,b in 16 bit mode and x,b,g,r in 32 bit mode. An
// 8 bit pixel is a single grey byte colored by ppr in place of an xlut
// entry.
func (d *Device) drawLine(dst []byte, src uint32, pixmode int, blueFirst bool) {
	vram, mask := d.st.VRAM, d.st.VRAMMask
	next := func() byte {
		v := vram[src&mask]
		src++
		return v
	}

	width := d.st.Width
	if room := len(dst) / 4; width > room {
		width = room
	}

	xlut := d.st.Ctrl.PPR
	for i := 0; i < width; i++ {
		x := next()
		var r, g, b byte
		if pixmode == 8 {
			b = x
		} else {
			b = next()
			xlut = d.st.XLUT[x]
		}
		if pixmode == 32 {
			g = next()
			r = next()
		} else {
			r, g = b, b
		}

		abgr := d.pixelColor(xlut, x, r, g, b)
		if blueFirst {
			putLE32(dst[i*4:], abgr&0xffffff)
		} else {
			putLE32(dst[i*4:], swapRB(abgr))
		}
	}
}

// render paints the full frame into a 32 bit surface
func (d *Device) render(data []byte, linesize int, blueFirst bool) {
	pixmode := d.st.Ctrl.pixMode()
	stride := uint32(d.st.Width * (pixmode / 8))

	src := uint32(0)
	for y := 0; y < d.st.Height; y++ {
		start := y * linesize
		if start >= len(data) {
			break
		}
		d.drawLine(data[start:], src, pixmode, blueFirst)
		src += stride
	}
}
