package iconpack

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/esimov/iconpack/svgdoc"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"golang.org/x/image/math/f64"
)

// IconSource is a single icon read from the source tree.
type IconSource struct {
	Name       string
	Markup     []byte
	NativeSize float64  // declared width of the icon
	Origin     f64.Vec2 // top-left corner of the viewBox
}

// ParseSource reads the declared geometry of an icon. Icons are expected to be
// square: a height or viewBox disagreeing with the declared width is rejected.
func ParseSource(name string, markup []byte) (IconSource, error) {
	src := IconSource{Name: name, Markup: markup}
	malformed := func(reason string, err error) (IconSource, error) {
		return IconSource{}, &MalformedSourceError{Name: name, Reason: reason, Err: err}
	}

	doc, err := svgdoc.Parse(bytes.NewReader(markup))
	if err != nil {
		return malformed("unable to parse markup", err)
	}

	width, ok := doc.Root.Get("width")
	if !ok {
		return malformed("missing width attribute", nil)
	}
	size, err := svgdoc.ParseLength(width)
	if err != nil {
		return malformed("non-numeric width", err)
	}
	if size <= 0 {
		return malformed(fmt.Sprintf("non-positive width %v", size), nil)
	}
	src.NativeSize = size

	if height, ok := doc.Root.Get("height"); ok {
		h, err := svgdoc.ParseLength(height)
		if err != nil {
			return malformed("non-numeric height", err)
		}
		if !nearlyEqual(h, size) {
			return malformed(fmt.Sprintf("icon is not square (%vx%v)", size, h), nil)
		}
	}

	if vb, ok := doc.Root.Get("viewBox"); ok {
		nums, err := svgdoc.ParseNumbers(vb)
		if err != nil || len(nums) != 4 {
			return malformed(fmt.Sprintf("invalid viewBox %q", vb), err)
		}
		if !nearlyEqual(nums[2], size) || !nearlyEqual(nums[3], size) {
			return malformed(fmt.Sprintf("viewBox %q does not match the declared width %v", vb, size), nil)
		}
		src.Origin = f64.Vec2{nums[0], nums[1]}
	}
	return src, nil
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// SourceTree locates the files of a checked out icon repository.
type SourceTree struct {
	Fs          afero.Fs
	Root        string
	IconDir     string // relative to Root
	Ext         string // icon file extension, with the leading dot
	MappingFile string // relative to Root
	VersionFile string // relative to Root
}

// IconNames lists the icon names found in the icon directory, sorted.
func (t SourceTree) IconNames() ([]string, error) {
	dir := filepath.Join(t.Root, t.IconDir)
	infos, err := afero.ReadDir(t.Fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list icons in %s", dir)
	}

	var names []string
	for _, fi := range infos {
		if !fi.Mode().IsRegular() || filepath.Ext(fi.Name()) != t.Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(fi.Name(), t.Ext))
	}
	sort.Strings(names)
	return names, nil
}

// ReadIcon loads and parses the named icon.
func (t SourceTree) ReadIcon(name string) (IconSource, error) {
	path := filepath.Join(t.Root, t.IconDir, name+t.Ext)
	data, err := afero.ReadFile(t.Fs, path)
	if err != nil {
		return IconSource{}, &MalformedSourceError{Name: name, Reason: "unable to read source file", Err: err}
	}
	return ParseSource(name, data)
}

// ReadMapping loads the name to id mapping table.
func (t SourceTree) ReadMapping() (Mapping, error) {
	path := filepath.Join(t.Root, t.MappingFile)
	data, err := afero.ReadFile(t.Fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read icon mapping")
	}
	m, err := ParseMapping(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid icon mapping %s", path)
	}
	return m, nil
}

// ReadVersion returns the version field of the source package file.
func (t SourceTree) ReadVersion() (string, error) {
	path := filepath.Join(t.Root, t.VersionFile)
	data, err := afero.ReadFile(t.Fs, path)
	if err != nil {
		return "", errors.Wrap(err, "unable to read source version")
	}
	if !gjson.ValidBytes(data) {
		return "", errors.Errorf("%s is not valid JSON", path)
	}
	v := gjson.GetBytes(data, "version")
	if v.Type != gjson.String || v.String() == "" {
		return "", errors.Errorf("%s has no version field", path)
	}
	return v.String(), nil
}
