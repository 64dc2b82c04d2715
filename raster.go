package iconpack

import (
	"bytes"
	"image"

	"github.com/esimov/iconpack/imop"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// raster renders the icon into an intermediate layer covering only the
// drawable region, then composites that layer onto the transparent canvas.
func (n *Normalizer) raster(src IconSource) ([]byte, error) {
	drawable := n.Canvas.Drawable()
	layerSize := drawable * n.Supersample

	doc, err := n.fit(src, Canvas{Size: layerSize})
	if err != nil {
		return nil, err
	}
	layer, err := rasterize(doc.Bytes(), layerSize)
	if err != nil {
		return nil, err
	}
	if n.Supersample > 1 {
		layer = imop.Downsample(layer, drawable)
	}

	canvas := imop.NewBitmap(n.Canvas.Size)
	off := n.Canvas.Offset()
	canvas.Place(layer, image.Pt(off, off))

	return encodeImg(canvas.Img, n.Format)
}

// rasterize draws the SVG markup into a size x size RGBA image.
func rasterize(markup []byte, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}
