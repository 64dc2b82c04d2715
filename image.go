package iconpack

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Supported raster output formats.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
	FormatSVG = "svg"
)

// encodeImg encodes the image in the given raster format.
func encodeImg(img image.Image, format string) ([]byte, error) {
	f, err := imaging.FormatFromExtension(format)
	if err != nil || (f != imaging.PNG && f != imaging.BMP) {
		return nil, errors.Errorf("unsupported raster format %q", format)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f); err != nil {
		return nil, errors.Wrapf(err, "unable to encode %s", format)
	}
	return buf.Bytes(), nil
}
