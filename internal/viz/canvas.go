package viz

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph metrics of basicfont.Face7x13.
const (
	glyphW = 7
	glyphH = 13
	ascent = 11
)

// Canvas is a paletted raster with a clip rectangle for line drawing.
type Canvas struct {
	Img  *image.Paletted
	Clip image.Rectangle
}

func NewCanvas(img *image.Paletted) *Canvas {
	return &Canvas{Img: img, Clip: img.Bounds()}
}

// Set colours the pixel at (x, y) if it lies inside the clip rectangle.
func (c *Canvas) Set(x, y int, idx uint8) {
	if !(image.Point{X: x, Y: y}).In(c.Clip) {
		return
	}
	c.Img.SetColorIndex(x, y, idx)
}

func (c *Canvas) Fill(r image.Rectangle, idx uint8) {
	r = r.Intersect(c.Img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.Img.SetColorIndex(x, y, idx)
		}
	}
}

// Rect outlines r, inclusive of its max edge.
func (c *Canvas) Rect(r image.Rectangle, idx uint8) {
	c.DrawLine(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, idx)
	c.DrawLine(r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, idx)
	c.DrawLine(r.Max.X, r.Max.Y, r.Min.X, r.Max.Y, idx)
	c.DrawLine(r.Min.X, r.Max.Y, r.Min.X, r.Min.Y, idx)
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, idx uint8) {
	c.line(x0, y0, x1, y1, idx, 1)
}

// DashLine draws every other run of three pixels.
func (c *Canvas) DashLine(x0, y0, x1, y1 int, idx uint8) {
	c.line(x0, y0, x1, y1, idx, 3)
}

// ThickLine draws a two pixel wide line.
func (c *Canvas) ThickLine(x0, y0, x1, y1 int, idx uint8) {
	c.DrawLine(x0, y0, x1, y1, idx)
	if absInt(x1-x0) > absInt(y1-y0) {
		c.DrawLine(x0, y0+1, x1, y1+1, idx)
	} else {
		c.DrawLine(x0+1, y0, x1+1, y1, idx)
	}
}

func (c *Canvas) line(x0, y0, x1, y1 int, idx uint8, dash int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for n := 0; ; n++ {
		if dash == 1 || (n/dash)%2 == 0 {
			c.Set(x0, y0, idx)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Text draws s with its top-left corner at (x, y).
func (c *Canvas) Text(x, y int, s string, idx uint8) {
	d := font.Drawer{
		Dst:  c.Img,
		Src:  image.NewUniform(c.Img.Palette[idx]),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+ascent),
	}
	d.DrawString(s)
}

// TextWidth is the pixel width of s in the canvas font.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// CopyFrom overwrites the canvas with src, which must share its bounds and
// palette.
func (c *Canvas) CopyFrom(src *image.Paletted) {
	copy(c.Img.Pix, src.Pix)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
