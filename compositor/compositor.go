// Package compositor reconstructs frame payloads and draws them onto the
// session canvas.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"math"

	"xwebview/protocol"
)

const BytesPerPixel = protocol.BytesPerPixel

// LengthCheck selects which size FrameHeader.Length is compared against.
type LengthCheck string

const (
	// CheckDecompressed compares the decoded pixel buffer length.
	CheckDecompressed LengthCheck = "decompressed"
	// CheckCompressed compares the raw payload length, which is what the
	// xwebview C source announces.
	CheckCompressed LengthCheck = "compressed"
)

var (
	ErrLengthMismatch = errors.New("payload length does not match frame header")
	ErrSizeMismatch   = errors.New("pixel buffer does not cover frame rectangle")
	ErrHeaderBounds   = errors.New("frame header rectangle out of range")
)

type Compositor struct {
	canvas *Canvas
	dec    Decompressor
	check  LengthCheck
}

func New(canvas *Canvas, dec Decompressor, check LengthCheck) *Compositor {
	if check == "" {
		check = CheckDecompressed
	}
	return &Compositor{canvas: canvas, dec: dec, check: check}
}

func (c *Compositor) Canvas() *Canvas { return c.canvas }

// Draw decodes payload and blits it at the header position. A returned
// error means the frame was dropped and the canvas is untouched.
func (c *Compositor) Draw(h protocol.FrameHeader, payload []byte) error {
	r, err := HeaderRect(h, c.canvas.Bounds())
	if err != nil {
		return err
	}
	if c.check == CheckCompressed && len(payload) != h.Length {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(payload), h.Length)
	}
	// bounded by the canvas, unlike h.Length
	pix, err := c.dec.Decompress(payload, h.PixelBytes())
	if err != nil {
		return err
	}
	if c.check == CheckDecompressed && len(pix) != h.Length {
		return fmt.Errorf("%w: got %d, want %d", ErrLengthMismatch, len(pix), h.Length)
	}
	if len(pix) != h.PixelBytes() {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrSizeMismatch, len(pix), h.W, h.H)
	}
	ConvertPixels(pix)
	c.canvas.Blit(r, pix)
	return nil
}

// HeaderRect returns the rectangle h covers. Empty sizes, corners that
// overflow int and areas larger than the whole canvas are rejected.
func HeaderRect(h protocol.FrameHeader, canvas image.Rectangle) (image.Rectangle, error) {
	if h.W <= 0 || h.H <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: size %dx%d", ErrHeaderBounds, h.W, h.H)
	}
	if h.X > math.MaxInt-h.W || h.Y > math.MaxInt-h.H {
		return image.Rectangle{}, fmt.Errorf("%w: origin %d,%d overflows", ErrHeaderBounds, h.X, h.Y)
	}
	area := canvas.Dx() * canvas.Dy()
	if h.W > area/h.H {
		return image.Rectangle{}, fmt.Errorf("%w: %dx%d larger than %dx%d canvas", ErrHeaderBounds, h.W, h.H, canvas.Dx(), canvas.Dy())
	}
	return image.Rect(h.X, h.Y, h.X+h.W, h.Y+h.H), nil
}

// ConvertPixels turns source BGRx pixels into opaque RGBA in place.
func ConvertPixels(pix []byte) {
	for i := 0; i+3 < len(pix); i += BytesPerPixel {
		pix[i], pix[i+2] = pix[i+2], pix[i]
		pix[i+3] = 0xff
	}
}
