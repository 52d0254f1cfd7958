package pixbuf

import (
	"image"
	"image/color"
)

// GrayImage adapts a Buffer[uint8] to image.Image, the way the
// teacher's stripedTiff adapts its own decoded pixels for downstream
// consumption (texture.Sample ultimately calls img.At).
type GrayImage struct{ Buf *Buffer[uint8] }

func (g GrayImage) ColorModel() color.Model { return color.GrayModel }
func (g GrayImage) Bounds() image.Rectangle { return image.Rect(0, 0, g.Buf.Width(), g.Buf.Height()) }
func (g GrayImage) At(x, y int) color.Color {
	v, err := g.Buf.At(x, y)
	if err != nil {
		return color.Gray{}
	}
	return color.Gray{Y: v}
}

// Gray16Image adapts a Buffer[uint16].
type Gray16Image struct{ Buf *Buffer[uint16] }

func (g Gray16Image) ColorModel() color.Model { return color.Gray16Model }
func (g Gray16Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Buf.Width(), g.Buf.Height())
}
func (g Gray16Image) At(x, y int) color.Color {
	v, err := g.Buf.At(x, y)
	if err != nil {
		return color.Gray16{}
	}
	return color.Gray16{Y: v}
}

// RGBImage adapts a Buffer[RGB8].
type RGBImage struct{ Buf *Buffer[RGB8] }

func (r RGBImage) ColorModel() color.Model { return color.RGBAModel }
func (r RGBImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Buf.Width(), r.Buf.Height())
}
func (r RGBImage) At(x, y int) color.Color {
	v, err := r.Buf.At(x, y)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: v.R, G: v.G, B: v.B, A: 255}
}

// RGB16Image adapts a Buffer[RGB16].
type RGB16Image struct{ Buf *Buffer[RGB16] }

func (r RGB16Image) ColorModel() color.Model { return color.RGBA64Model }
func (r RGB16Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Buf.Width(), r.Buf.Height())
}
func (r RGB16Image) At(x, y int) color.Color {
	v, err := r.Buf.At(x, y)
	if err != nil {
		return color.RGBA64{A: 0xFFFF}
	}
	return color.RGBA64{R: v.R, G: v.G, B: v.B, A: 0xFFFF}
}

// CMYKImage adapts a Buffer[CMYK8].
type CMYKImage struct{ Buf *Buffer[CMYK8] }

func (c CMYKImage) ColorModel() color.Model { return color.CMYKModel }
func (c CMYKImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Buf.Width(), c.Buf.Height())
}
func (c CMYKImage) At(x, y int) color.Color {
	v, err := c.Buf.At(x, y)
	if err != nil {
		return color.CMYK{}
	}
	return color.CMYK{C: v.C, M: v.M, Y: v.Y, K: v.K}
}

// RGBAImage adapts a Buffer[RGBA8].
type RGBAImage struct{ Buf *Buffer[RGBA8] }

func (r RGBAImage) ColorModel() color.Model { return color.RGBAModel }
func (r RGBAImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Buf.Width(), r.Buf.Height())
}
func (r RGBAImage) At(x, y int) color.Color {
	v, err := r.Buf.At(x, y)
	if err != nil {
		return color.RGBA{}
	}
	return color.RGBA{R: v.R, G: v.G, B: v.B, A: v.A}
}
