package svgdoc

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/math/f64"
)

// Identity is the identity affine matrix.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Multiply returns the matrix applying b first, then a.
func Multiply(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Invert returns the inverse of m. It fails on singular matrices.
func Invert(m f64.Aff3) (f64.Aff3, error) {
	det := m[0]*m[4] - m[1]*m[3]
	if math.Abs(det) < 1e-12 {
		return f64.Aff3{}, fmt.Errorf("singular matrix %v", m)
	}
	return f64.Aff3{
		m[4] / det,
		-m[1] / det,
		(m[1]*m[5] - m[4]*m[2]) / det,
		-m[3] / det,
		m[0] / det,
		(m[3]*m[2] - m[0]*m[5]) / det,
	}, nil
}

// ParseTransform parses the value of a transform attribute into a single matrix.
func ParseTransform(s string) (f64.Aff3, error) {
	m := Identity
	sc := scanner{s: s}
	for {
		sc.skipSeparators()
		if sc.done() {
			return m, nil
		}
		start := sc.i
		for !sc.done() && isLetter(sc.peek()) {
			sc.i++
		}
		name := sc.s[start:sc.i]
		sc.skipSpaces()
		if sc.done() || sc.peek() != '(' {
			return f64.Aff3{}, fmt.Errorf("invalid transform %q", s)
		}
		sc.i++

		var args []float64
		for {
			sc.skipSeparators()
			if sc.done() {
				return f64.Aff3{}, fmt.Errorf("unterminated transform %q", s)
			}
			if sc.peek() == ')' {
				sc.i++
				break
			}
			v, err := sc.number()
			if err != nil {
				return f64.Aff3{}, fmt.Errorf("transform %s: %w", name, err)
			}
			args = append(args, v)
		}

		t, err := transformFunc(name, args)
		if err != nil {
			return f64.Aff3{}, err
		}
		m = Multiply(m, t)
	}
}

func transformFunc(name string, args []float64) (f64.Aff3, error) {
	arity := func(counts ...int) error {
		for _, c := range counts {
			if len(args) == c {
				return nil
			}
		}
		return fmt.Errorf("transform %s: unexpected %d arguments", name, len(args))
	}

	switch name {
	case "matrix":
		if err := arity(6); err != nil {
			return f64.Aff3{}, err
		}
		return f64.Aff3{args[0], args[2], args[4], args[1], args[3], args[5]}, nil
	case "translate":
		if err := arity(1, 2); err != nil {
			return f64.Aff3{}, err
		}
		ty := 0.0
		if len(args) == 2 {
			ty = args[1]
		}
		return f64.Aff3{1, 0, args[0], 0, 1, ty}, nil
	case "scale":
		if err := arity(1, 2); err != nil {
			return f64.Aff3{}, err
		}
		sy := args[0]
		if len(args) == 2 {
			sy = args[1]
		}
		return f64.Aff3{args[0], 0, 0, 0, sy, 0}, nil
	case "rotate":
		if err := arity(1, 3); err != nil {
			return f64.Aff3{}, err
		}
		sin, cos := math.Sincos(args[0] * math.Pi / 180)
		r := f64.Aff3{cos, -sin, 0, sin, cos, 0}
		if len(args) == 3 {
			cx, cy := args[1], args[2]
			r = Multiply(f64.Aff3{1, 0, cx, 0, 1, cy}, Multiply(r, f64.Aff3{1, 0, -cx, 0, 1, -cy}))
		}
		return r, nil
	case "skewX":
		if err := arity(1); err != nil {
			return f64.Aff3{}, err
		}
		return f64.Aff3{1, math.Tan(args[0] * math.Pi / 180), 0, 0, 1, 0}, nil
	case "skewY":
		if err := arity(1); err != nil {
			return f64.Aff3{}, err
		}
		return f64.Aff3{1, 0, 0, math.Tan(args[0] * math.Pi / 180), 1, 0}, nil
	}
	return f64.Aff3{}, fmt.Errorf("unknown transform function %q", name)
}

// FormatMatrix writes m as an SVG matrix() transform.
func FormatMatrix(m f64.Aff3) string {
	var sb strings.Builder
	sb.WriteString("matrix(")
	sb.WriteString(FormatNumbers([]float64{m[0], m[3], m[1], m[4], m[2], m[5]}))
	sb.WriteByte(')')
	return sb.String()
}
