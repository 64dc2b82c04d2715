package svgdoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// precision is the number of decimals kept when writing coordinates back.
const precision = 1e4

// FormatNumber writes v in its shortest form, rounded to four decimals.
func FormatNumber(v float64) string {
	v = math.Round(v*precision) / precision
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseLength parses a plain or pixel length like "16" or "16px".
// Relative units are rejected since they have no meaning outside a viewport.
func ParseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	return v, nil
}

// ParseNumbers parses a comma or whitespace separated list of numbers,
// the format used by viewBox and the points attribute.
func ParseNumbers(s string) ([]float64, error) {
	sc := scanner{s: s}
	var out []float64
	for {
		sc.skipSeparators()
		if sc.done() {
			return out, nil
		}
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// FormatNumbers joins the numbers with single spaces.
func FormatNumbers(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = FormatNumber(v)
	}
	return strings.Join(parts, " ")
}

// scanner tokenizes the number based micro-syntaxes of SVG attributes.
type scanner struct {
	s string
	i int
}

func (sc *scanner) done() bool { return sc.i >= len(sc.s) }

func (sc *scanner) peek() byte { return sc.s[sc.i] }

func (sc *scanner) skipSeparators() {
	for sc.i < len(sc.s) {
		switch sc.s[sc.i] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.i++
		default:
			return
		}
	}
}

func (sc *scanner) skipSpaces() {
	for sc.i < len(sc.s) {
		switch sc.s[sc.i] {
		case ' ', '\t', '\n', '\r', '\f':
			sc.i++
		default:
			return
		}
	}
}

// number reads a floating point number. Two numbers may follow each other
// without a separator when the second starts with a sign or a dot ("1.5.5", "3-4").
func (sc *scanner) number() (float64, error) {
	start := sc.i
	if sc.i < len(sc.s) && (sc.s[sc.i] == '+' || sc.s[sc.i] == '-') {
		sc.i++
	}
	digits := sc.digits()
	if sc.i < len(sc.s) && sc.s[sc.i] == '.' {
		sc.i++
		digits += sc.digits()
	}
	if digits == 0 {
		sc.i = start
		return 0, fmt.Errorf("expected number at offset %d in %q", start, sc.s)
	}
	if sc.i < len(sc.s) && (sc.s[sc.i] == 'e' || sc.s[sc.i] == 'E') {
		mark := sc.i
		sc.i++
		if sc.i < len(sc.s) && (sc.s[sc.i] == '+' || sc.s[sc.i] == '-') {
			sc.i++
		}
		if sc.digits() == 0 {
			sc.i = mark
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:sc.i], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", sc.s[start:sc.i], err)
	}
	return v, nil
}

// flag reads a single arc flag, which may be packed against the next value.
func (sc *scanner) flag() (float64, error) {
	if sc.done() {
		return 0, fmt.Errorf("expected flag at end of %q", sc.s)
	}
	switch sc.s[sc.i] {
	case '0':
		sc.i++
		return 0, nil
	case '1':
		sc.i++
		return 1, nil
	}
	return 0, fmt.Errorf("expected flag at offset %d in %q", sc.i, sc.s)
}

func (sc *scanner) digits() int {
	n := 0
	for sc.i < len(sc.s) && sc.s[sc.i] >= '0' && sc.s[sc.i] <= '9' {
		sc.i++
		n++
	}
	return n
}
