package svgdoc

import (
	"fmt"
	"strings"
)

// argument kinds of the path commands
const (
	argX     = 'x' // horizontal coordinate
	argY     = 'y' // vertical coordinate
	argLen   = 'l' // length, only scaled
	argAngle = 'a' // left untouched
	argFlag  = 'f' // arc flag, left untouched
)

var pathArgs = map[byte]string{
	'M': "xy",
	'L': "xy",
	'T': "xy",
	'H': "x",
	'V': "y",
	'C': "xyxyxy",
	'S': "xyxy",
	'Q': "xyxy",
	'A': "llaffxy",
	'Z': "",
}

// TransformPath rewrites the path data d under a uniform scale followed by
// a translation of (tx, ty). Absolute coordinates are scaled and translated,
// relative ones are only scaled. Commands are kept as written, including
// implicit repetitions, so the output draws the same outline.
func TransformPath(d string, scale, tx, ty float64) (string, error) {
	sc := scanner{s: d}
	var (
		out     strings.Builder
		cmd     byte
		args    string
		first   = true
		lastNum bool
	)

	writeNum := func(v float64) {
		if lastNum {
			out.WriteByte(' ')
		}
		out.WriteString(FormatNumber(v))
		lastNum = true
	}

	for {
		sc.skipSeparators()
		if sc.done() {
			break
		}

		c := sc.peek()
		if isLetter(c) {
			upper := c &^ 0x20
			a, ok := pathArgs[upper]
			if !ok {
				return "", fmt.Errorf("unknown path command %q", c)
			}
			cmd, args = c, a
			sc.i++
			out.WriteByte(c)
			lastNum = false
			if len(args) == 0 {
				continue
			}
		} else {
			if cmd == 0 {
				return "", fmt.Errorf("path data must start with a command: %q", d)
			}
			if len(args) == 0 {
				return "", fmt.Errorf("unexpected number after %q in %q", cmd, d)
			}
		}

		// A relative moveto opening the path is measured from the origin.
		relative := cmd >= 'a' && !(first && cmd == 'm')

		for i := 0; i < len(args); i++ {
			sc.skipSeparators()
			var (
				v   float64
				err error
			)
			if args[i] == argFlag {
				v, err = sc.flag()
			} else {
				v, err = sc.number()
			}
			if err != nil {
				return "", fmt.Errorf("command %q: %w", cmd, err)
			}

			switch args[i] {
			case argX:
				v *= scale
				if !relative {
					v += tx
				}
			case argY:
				v *= scale
				if !relative {
					v += ty
				}
			case argLen:
				v *= scale
			}
			writeNum(v)
		}
		first = false
	}
	return out.String(), nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
