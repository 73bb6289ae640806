package cg14

import (
	"image"

	"golang.org/x/image/draw"
)

// Framebuffer is a plain in-memory Surface. Pixels are 4 bytes, laid out
// R,G,B,A (or B,G,R,A with SwapRB set), so Pix can be handed straight to
// anything that wants RGBA.
type Framebuffer struct {
	Width  int
	Height int
	Pix    []byte

	// SwapRB stores pixels as B,G,R,A
	SwapRB bool
	// Depth overrides the reported bits per pixel when non-zero
	Depth int

	// OnResize and OnPresent, if set, are called after the surface has
	// been updated. They run on the goroutine driving the device.
	OnResize  func(w, h int)
	OnPresent func(x, y, w, h int)

	Presents int
}

// Resize reallocates Pix for the new geometry
func (fb *Framebuffer) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	fb.Width, fb.Height = w, h
	fb.Pix = make([]byte, w*h*4)
	if fb.OnResize != nil {
		fb.OnResize(w, h)
	}
}

// PresentRegion makes the region opaque and passes it along
func (fb *Framebuffer) PresentRegion(x, y, w, h int) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, fb.Width), min(y+h, fb.Height)
	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			i := (row*fb.Width+col)*4 + 3
			if i >= len(fb.Pix) {
				// Pix is shorter than Width x Height claims
				row = y1
				break
			}
			fb.Pix[i] = 0xff
		}
	}
	fb.Presents++
	if fb.OnPresent != nil {
		fb.OnPresent(x, y, w, h)
	}
}

// BitsPerPixel is 32 unless Depth says otherwise
func (fb *Framebuffer) BitsPerPixel() int {
	if fb.Depth != 0 {
		return fb.Depth
	}
	return 32
}

// BlueFirst is true for R,G,B,A byte order, which read as a little
// endian word is 0xAABBGGRR.
func (fb *Framebuffer) BlueFirst() bool { return !fb.SwapRB }

// Data returns the pixel bytes
func (fb *Framebuffer) Data() []byte { return fb.Pix }

// Linesize is the byte stride between rows
func (fb *Framebuffer) Linesize() int { return fb.Width * 4 }

// Image copies the frame into an *image.RGBA
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Pix)
	if fb.SwapRB {
		for i := 0; i+3 < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		}
	}
	return img
}

// Thumbnail scales the frame to fit inside maxW x maxH, keeping the
// aspect ratio. Frames that already fit come back unscaled.
func (fb *Framebuffer) Thumbnail(maxW, maxH int) *image.RGBA {
	src := fb.Image()
	if fb.Width <= maxW && fb.Height <= maxH || fb.Width == 0 || fb.Height == 0 {
		return src
	}
	w, h := maxW, fb.Height*maxW/fb.Width
	if h > maxH {
		w, h = fb.Width*maxH/fb.Height, maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
