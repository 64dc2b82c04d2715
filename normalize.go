package iconpack

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/esimov/iconpack/svgdoc"
	"github.com/pkg/errors"
)

// Mode selects the output produced for every icon.
type Mode string

const (
	// RasterMode renders the icon into a bitmap.
	RasterMode Mode = "raster"
	// VectorMode rewrites the icon markup.
	VectorMode Mode = "vector"
)

// currentColor is the placeholder an icon uses to inherit the host color.
const currentColor = "currentColor"

var currentColorRe = regexp.MustCompile(`(?i)currentcolor`)

// Normalizer scales and centers raw source icons into a padded canvas.
type Normalizer struct {
	Canvas Canvas
	Mode   Mode
	// Color replaces the currentColor placeholder. When empty the
	// placeholder is kept, which is only allowed in vector mode.
	Color string
	// Format is the raster encoding, png or bmp.
	Format string
	// Supersample renders the raster layer at a multiple of its final
	// resolution before resampling it down.
	Supersample int
}

// Ext returns the extension of the produced icon files.
func (n *Normalizer) Ext() string {
	if n.Mode == VectorMode {
		return FormatSVG
	}
	return n.Format
}

// Validate checks that the normalizer can produce output.
func (n *Normalizer) Validate() error {
	if err := n.Canvas.Validate(); err != nil {
		return err
	}
	switch n.Mode {
	case RasterMode:
		if n.Color == "" {
			return errors.New("raster mode needs a fill color")
		}
		if n.Format != FormatPNG && n.Format != FormatBMP {
			return errors.Errorf("unsupported raster format %q", n.Format)
		}
		if n.Supersample < 1 {
			return errors.Errorf("supersample must be at least 1, got %d", n.Supersample)
		}
	case VectorMode:
	default:
		return errors.Errorf("unknown mode %q", n.Mode)
	}
	return nil
}

// Normalize produces the output file content for a single icon.
func (n *Normalizer) Normalize(src IconSource) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch n.Mode {
	case RasterMode:
		out, err = n.raster(src)
	case VectorMode:
		out, err = n.vector(src)
	default:
		return nil, errors.Errorf("unknown mode %q", n.Mode)
	}
	if err != nil {
		var malformed *MalformedSourceError
		if errors.As(err, &malformed) {
			return nil, err
		}
		return nil, &MalformedSourceError{Name: src.Name, Reason: "unable to normalize", Err: err}
	}
	return out, nil
}

// vector rewrites the icon markup so that it draws on the canvas.
func (n *Normalizer) vector(src IconSource) ([]byte, error) {
	doc, err := n.fit(src, n.Canvas)
	if err != nil {
		return nil, err
	}
	return doc.Bytes(), nil
}

// fit parses the source, moves every primitive into the canvas
// and resizes the root element to it.
func (n *Normalizer) fit(src IconSource, c Canvas) (*svgdoc.Document, error) {
	doc, err := svgdoc.Parse(bytes.NewReader(src.Markup))
	if err != nil {
		return nil, err
	}
	t, err := c.Fit(src.NativeSize, src.Origin)
	if err != nil {
		return nil, err
	}
	if err := transformElements(doc, t); err != nil {
		return nil, err
	}
	if n.Color != "" {
		recolor(doc, n.Color)
	}

	size := svgdoc.FormatNumber(float64(c.Size))
	doc.Root.Set("width", size)
	doc.Root.Set("height", size)
	doc.Root.Set("viewBox", "0 0 "+size+" "+size)
	return doc, nil
}

// transformElements applies t to the geometry of every element below the root.
func transformElements(doc *svgdoc.Document, t Transform) error {
	for _, el := range doc.Elements() {
		if v, ok := el.Get("transform"); ok {
			m, err := svgdoc.ParseTransform(v)
			if err != nil {
				return err
			}
			el.Set("transform", svgdoc.FormatMatrix(t.Conjugate(m)))
		}
		if err := scaleAttrs(el, t, "stroke-width"); err != nil {
			return err
		}

		var err error
		switch el.Name.Local {
		case "path":
			if d, ok := el.Get("d"); ok {
				tx, ty := t.Translation()
				d, err = svgdoc.TransformPath(d, t.Scale(), tx, ty)
				if err == nil {
					el.Set("d", d)
				}
			}
		case "circle":
			if err = movePoint(el, t, "cx", "cy"); err == nil {
				err = scaleAttrs(el, t, "r")
			}
		case "ellipse":
			if err = movePoint(el, t, "cx", "cy"); err == nil {
				err = scaleAttrs(el, t, "rx", "ry")
			}
		case "rect":
			if err = movePoint(el, t, "x", "y"); err == nil {
				err = scaleAttrs(el, t, "width", "height", "rx", "ry")
			}
		case "line":
			if err = movePoint(el, t, "x1", "y1"); err == nil {
				err = movePoint(el, t, "x2", "y2")
			}
		case "polygon", "polyline":
			err = movePoints(el, t)
		case "use":
			// the referenced content is already on the canvas,
			// only the offset to it changes with the scale
			err = scaleAttrs(el, t, "x", "y")
		}
		if err != nil {
			return errors.Wrapf(err, "<%s>", el.Name.Local)
		}
	}
	return nil
}

// movePoint maps the coordinate pair held by the two attributes.
// Missing coordinates default to zero and are written out.
func movePoint(el *svgdoc.Node, t Transform, xAttr, yAttr string) error {
	var xy [2]float64
	for i, attr := range []string{xAttr, yAttr} {
		if v, ok := el.Get(attr); ok {
			f, err := svgdoc.ParseLength(v)
			if err != nil {
				return errors.Wrapf(err, "attribute %s", attr)
			}
			xy[i] = f
		}
	}
	x, y := t.Apply(xy[0], xy[1])
	el.Set(xAttr, svgdoc.FormatNumber(x))
	el.Set(yAttr, svgdoc.FormatNumber(y))
	return nil
}

func movePoints(el *svgdoc.Node, t Transform) error {
	v, ok := el.Get("points")
	if !ok {
		return nil
	}
	pts, err := svgdoc.ParseNumbers(v)
	if err != nil {
		return errors.Wrap(err, "attribute points")
	}
	if len(pts)%2 != 0 {
		return errors.Errorf("attribute points has an odd number of coordinates")
	}
	for i := 0; i < len(pts); i += 2 {
		pts[i], pts[i+1] = t.Apply(pts[i], pts[i+1])
	}
	el.Set("points", svgdoc.FormatNumbers(pts))
	return nil
}

func scaleAttrs(el *svgdoc.Node, t Transform, attrs ...string) error {
	for _, attr := range attrs {
		v, ok := el.Get(attr)
		if !ok {
			continue
		}
		f, err := svgdoc.ParseLength(v)
		if err != nil {
			return errors.Wrapf(err, "attribute %s", attr)
		}
		el.Set(attr, svgdoc.FormatNumber(t.ScaleLen(f)))
	}
	return nil
}

// recolor bakes color into every currentColor placeholder of the document.
func recolor(doc *svgdoc.Document, color string) {
	for _, el := range append([]*svgdoc.Node{doc.Root}, doc.Elements()...) {
		for i, a := range el.Attr {
			switch {
			case strings.EqualFold(strings.TrimSpace(a.Value), currentColor):
				el.Attr[i].Value = color
			case a.Name.Local == "style":
				el.Attr[i].Value = currentColorRe.ReplaceAllString(a.Value, color)
			}
		}
	}
}
