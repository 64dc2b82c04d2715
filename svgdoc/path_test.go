package svgdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_ShouldTransformPathData(t *testing.T) {
	testCases := []struct {
		name  string
		d     string
		scale float64
		tx    float64
		ty    float64
		want  string
	}{
		{"absolute", "M10 10L20 20", 4, 32, 32, "M72 72L112 112"},
		{"leading relative moveto", "m1 1l2 2", 4, 32, 32, "m36 36l8 8"},
		{"implicit repetition", "M0 0 10 0 10 10z", 2, 1, 1, "M1 1 21 1 21 21z"},
		{"implicit relative after moveto", "m1 1 2 2", 2, 1, 1, "m3 3 4 4"},
		{"horizontal and vertical", "H4V4h1v1", 2, 10, 20, "H18V28h2v2"},
		{"curves", "C0 0 1 1 2 2s1 1 2 2", 2, 1, 1, "C1 1 3 3 5 5s2 2 4 4"},
		{"arc", "A2 2 0 0 1 4 4", 2, 1, 1, "A4 4 0 0 1 9 9"},
		{"packed arc flags", "a1 1 0 011 1", 3, 5, 5, "a3 3 0 0 1 3 3"},
		{"packed numbers", "M1.5.5", 2, 0, 0, "M3 1"},
		{"exponent", "M1e1-2E0", 1, 0, 0, "M10 -2"},
		{"commas", "M1,2,3,4", 1, 0, 0, "M1 2 3 4"},
		{"empty", "", 2, 1, 1, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TransformPath(tc.d, tc.scale, tc.tx, tc.ty)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPath_ShouldRejectInvalidPathData(t *testing.T) {
	for _, d := range []string{
		"10 10",
		"M1",
		"X1 1",
		"M0 0Z1",
		"A1 1 0 2 1 1 1",
	} {
		_, err := TransformPath(d, 1, 0, 0)
		assert.Error(t, err, "path %q", d)
	}
}
