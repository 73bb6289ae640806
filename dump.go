package cg14

import (
	"bufio"
	"fmt"
	"io"
)

// WritePPM dumps the current frame as a binary ppm. It decodes vram
// itself with the same pixel rules Refresh uses, so it works whatever
// the host surface is doing.
func (d *Device) WritePPM(out io.Writer) error {
	bw := bufio.NewWriter(out)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n%d\n", d.st.Width, d.st.Height, 255); err != nil {
		return err
	}

	pixmode := d.st.Ctrl.pixMode()
	stride := uint32(d.st.Width * (pixmode / 8))
	words := make([]byte, d.st.Width*4)
	rgb := make([]byte, d.st.Width*3)

	src := uint32(0)
	for y := 0; y < d.st.Height; y++ {
		// blue-first words are R,G,B,0 in memory
		d.drawLine(words, src, pixmode, true)
		for x := 0; x < d.st.Width; x++ {
			copy(rgb[x*3:x*3+3], words[x*4:x*4+3])
		}
		if _, err := bw.Write(rgb); err != nil {
			return err
		}
		src += stride
	}
	return bw.Flush()
}
