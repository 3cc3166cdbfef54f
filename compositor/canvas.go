package compositor

import (
	"image"
	"image/draw"
)

// Canvas is the surface every monitor region is drawn on.
type Canvas struct {
	img *image.RGBA
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))}
}

// Resize replaces the surface. Pixels that still fit keep their position.
func (c *Canvas) Resize(w, h int) {
	next := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	draw.Draw(next, c.img.Bounds(), c.img, image.Point{}, draw.Src)
	c.img = next
}

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Blit overwrites r with rgba, a tightly packed r.Dx()*r.Dy() pixel buffer.
// Parts of r outside the canvas are skipped.
func (c *Canvas) Blit(r image.Rectangle, rgba []byte) {
	clip := r.Intersect(c.img.Bounds())
	if clip.Empty() {
		return
	}
	srcStride := r.Dx() * BytesPerPixel
	rowBytes := clip.Dx() * BytesPerPixel
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		src := (y-r.Min.Y)*srcStride + (clip.Min.X-r.Min.X)*BytesPerPixel
		dst := c.img.PixOffset(clip.Min.X, y)
		copy(c.img.Pix[dst:dst+rowBytes], rgba[src:src+rowBytes])
	}
}

// Snapshot copies r (clipped to the canvas) into a new image whose bounds
// start at the origin.
func (c *Canvas) Snapshot(r image.Rectangle) *image.RGBA {
	clip := r.Intersect(c.img.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, clip.Dx(), clip.Dy()))
	if !clip.Empty() {
		draw.Draw(out, out.Bounds(), c.img, clip.Min, draw.Src)
	}
	return out
}

// Dim halves the opacity of img in place.
func Dim(img *image.RGBA) {
	for i := range img.Pix {
		// premultiplied, so every channel scales with alpha
		img.Pix[i] /= 2
	}
}
