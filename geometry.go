package iconpack

import (
	"fmt"

	"github.com/esimov/iconpack/svgdoc"
	"golang.org/x/image/math/f64"
)

// Canvas is the fixed-size square surface every icon is normalized into.
// The icon is scaled to fill the canvas minus Padding pixels on every side.
type Canvas struct {
	Size    int `yaml:"size"`
	Padding int `yaml:"padding"`
}

// Validate checks the canvas invariant Size > 2*Padding.
func (c Canvas) Validate() error {
	if c.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %d", c.Padding)
	}
	if c.Size <= 2*c.Padding {
		return fmt.Errorf("canvas size %d leaves no room for a padding of %d", c.Size, c.Padding)
	}
	return nil
}

// Drawable returns the side of the square the icon content is scaled into.
func (c Canvas) Drawable() int {
	return c.Size - 2*c.Padding
}

// Offset returns the position at which a drawable sized layer
// has to be placed to end up centered on the canvas.
func (c Canvas) Offset() int {
	return (c.Size - c.Drawable()) / 2
}

// Fit returns the transform mapping a square source frame of nativeSize
// units, whose top-left corner is at origin, onto the drawable region.
func (c Canvas) Fit(nativeSize float64, origin f64.Vec2) (Transform, error) {
	if nativeSize <= 0 {
		return Transform{}, fmt.Errorf("native size must be positive, got %v", nativeSize)
	}
	s := float64(c.Drawable()) / nativeSize
	p := float64(c.Padding)
	return Transform{m: f64.Aff3{
		s, 0, p - s*origin[0],
		0, s, p - s*origin[1],
	}}, nil
}

// Transform is a uniform scale about the origin followed by a translation.
type Transform struct {
	m f64.Aff3
}

// Scale returns the scale factor of the transform.
func (t Transform) Scale() float64 { return t.m[0] }

// Translation returns the translation part of the transform.
func (t Transform) Translation() (float64, float64) { return t.m[2], t.m[5] }

// Matrix returns the transform as an affine matrix.
func (t Transform) Matrix() f64.Aff3 { return t.m }

// Apply maps a point of the source frame onto the canvas.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.m[0]*x + t.m[1]*y + t.m[2], t.m[3]*x + t.m[4]*y + t.m[5]
}

// ScaleLen maps a length of the source frame onto the canvas.
func (t Transform) ScaleLen(l float64) float64 { return l * t.m[0] }

// Conjugate rewrites an element transform m so that it acts on
// canvas coordinates the way m acted on source coordinates.
func (t Transform) Conjugate(m f64.Aff3) f64.Aff3 {
	inv, err := svgdoc.Invert(t.m)
	if err != nil {
		// a uniform scale built by Fit is never singular
		panic(err)
	}
	return svgdoc.Multiply(t.m, svgdoc.Multiply(m, inv))
}
