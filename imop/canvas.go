// Package imop implements the raster operations used to lay a rendered icon
// onto its padded canvas: creating the transparent surface, compositing a
// layer over it with the source-over operator and resampling layers rendered
// at a higher resolution.
package imop

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Transparent is the background of a freshly created canvas.
var Transparent = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// Bitmap is a square, initially transparent, drawing surface.
type Bitmap struct {
	Img *image.NRGBA
}

// NewBitmap creates a transparent bitmap of size x size pixels.
func NewBitmap(size int) *Bitmap {
	return &Bitmap{
		Img: imaging.New(size, size, Transparent),
	}
}

// Place composites the layer over the bitmap with its top-left corner at pt.
func (b *Bitmap) Place(layer image.Image, pt image.Point) {
	b.Img = imaging.Overlay(b.Img, layer, pt, 1.0)
}

// Downsample resamples img into a size x size image using a Lanczos filter.
func Downsample(img image.Image, size int) *image.NRGBA {
	if img.Bounds().Dx() == size && img.Bounds().Dy() == size {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, size, size, imaging.Lanczos)
}

// ContentBounds returns the smallest rectangle holding every
// pixel whose alpha is above the threshold.
func ContentBounds(img image.Image, threshold uint8) image.Rectangle {
	src := imaging.Clone(img)
	r := src.Bounds()
	var content image.Rectangle
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if src.Pix[src.PixOffset(x, y)+3] <= threshold {
				continue
			}
			content = content.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return content
}
