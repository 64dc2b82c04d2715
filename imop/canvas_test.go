package imop

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
)

func TestCanvas_NewBitmapShouldBeTransparent(t *testing.T) {
	assert := assert.New(t)

	bmp := NewBitmap(16)
	assert.Equal(image.Rect(0, 0, 16, 16), bmp.Img.Bounds())
	assert.Equal(uint8(0), bmp.Img.NRGBAAt(8, 8).A)
	assert.True(ContentBounds(bmp.Img, 0).Empty())
}

func TestCanvas_PlaceShouldOffsetTheLayer(t *testing.T) {
	assert := assert.New(t)

	layer := imaging.New(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	bmp := NewBitmap(16)
	bmp.Place(layer, image.Pt(6, 6))

	assert.Equal(image.Rect(6, 6, 10, 10), ContentBounds(bmp.Img, 0))
	assert.Equal(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, bmp.Img.NRGBAAt(7, 7))
	assert.Equal(uint8(0), bmp.Img.NRGBAAt(5, 5).A)
}

func TestCanvas_ContentBoundsShouldHonorTheThreshold(t *testing.T) {
	assert := assert.New(t)

	img := imaging.New(10, 10, color.NRGBA{})
	img.SetNRGBA(2, 3, color.NRGBA{A: 10})
	img.SetNRGBA(7, 8, color.NRGBA{A: 200})

	assert.Equal(image.Rect(2, 3, 8, 9), ContentBounds(img, 0))
	assert.Equal(image.Rect(7, 8, 8, 9), ContentBounds(img, 100))
}

func TestCanvas_DownsampleShouldResize(t *testing.T) {
	assert := assert.New(t)

	img := imaging.New(64, 64, color.NRGBA{R: 255, A: 255})
	small := Downsample(img, 16)
	assert.Equal(image.Rect(0, 0, 16, 16), small.Bounds())
	assert.Equal(uint8(255), small.NRGBAAt(8, 8).A)

	same := Downsample(img, 64)
	assert.Equal(img.Bounds(), same.Bounds())
}
