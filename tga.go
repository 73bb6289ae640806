package cg14

import (
	"bufio"
	"fmt"
	"io"
)

// WriteTGA writes the surface contents as an uncompressed 32 bit tga
func WriteTGA(out io.Writer, fb *Framebuffer) error {
	w, h := fb.Width, fb.Height
	if w*h*4 != len(fb.Pix) {
		return fmt.Errorf("WriteTGA(): bad sizes, %v*%v*4 != %v", w, h, len(fb.Pix))
	}

	bw := bufio.NewWriter(out)
	hdr := []byte{
		0, 0, 2, 0, 0, 0, 0, 0, // main hdr + color map info (unused)
		0, 0, 0, 0, // img origin
		byte(w), byte(w >> 8),
		byte(h), byte(h >> 8),
		32,   // 32 bpp
		0x28, // top to bottom, left to right ordering, 8-bit alpha
	}
	if _, err := bw.Write(hdr); err != nil {
		return err
	}
	// tga wants BGRA
	rOff, bOff := 0, 2
	if fb.SwapRB {
		rOff, bOff = 2, 0
	}
	px := make([]byte, 4)
	for i := 0; i < len(fb.Pix); i += 4 {
		px[0] = fb.Pix[i+bOff]
		px[1] = fb.Pix[i+1]
		px[2] = fb.Pix[i+rOff]
		px[3] = fb.Pix[i+3]
		if _, err := bw.Write(px); err != nil {
			return err
		}
	}
	return bw.Flush()
}
