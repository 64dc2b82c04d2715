package iconpack

import (
	"encoding/json"
	"math"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// MappingEntry binds an icon name to the id (codepoint) it renders.
type MappingEntry struct {
	Name string
	ID   int
}

// Mapping is the name to id table in the order it was written.
// Several names may share an id.
type Mapping []MappingEntry

// ParseMapping decodes a JSON object of name/id pairs keeping the key order,
// which decides what the canonical name of a shared id is.
func ParseMapping(data []byte) (Mapping, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("mapping is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("mapping must be a JSON object")
	}

	var (
		m    Mapping
		err  error
		seen = make(map[string]struct{})
	)
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if _, dup := seen[name]; dup {
			err = errors.Errorf("duplicate name %q", name)
			return false
		}
		seen[name] = struct{}{}

		id := value.Float()
		if value.Type != gjson.Number || id != math.Trunc(id) {
			err = errors.Errorf("id of %q must be an integer, got %s", name, value.Raw)
			return false
		}
		m = append(m, MappingEntry{Name: name, ID: int(id)})
		return true
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// IconEntry is one glyph of the catalog with all the names pointing at it.
type IconEntry struct {
	ID   int      `json:"-"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
	Path string   `json:"path"`
}

// Catalog is the ordered icon index of the package.
type Catalog []IconEntry

// BuildCatalog groups the mapping by id. The first name of an id becomes the
// entry name, the following ones its tags, both in mapping order. Entries
// are ordered by the first appearance of their id. Every mapped name must
// have a source file, otherwise an InconsistentMappingError is returned.
func BuildCatalog(m Mapping, sources []string, ext string) (Catalog, error) {
	available := make(map[string]struct{}, len(sources))
	for _, name := range sources {
		available[name] = struct{}{}
	}

	var missing []string
	for _, e := range m {
		if _, ok := available[e.Name]; !ok {
			missing = append(missing, e.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &InconsistentMappingError{Missing: missing}
	}

	index := make(map[int]int)
	catalog := Catalog{}
	for _, e := range m {
		i, ok := index[e.ID]
		if !ok {
			index[e.ID] = len(catalog)
			catalog = append(catalog, IconEntry{
				ID:   e.ID,
				Name: e.Name,
				Tags: []string{},
				Path: e.Name + "." + ext,
			})
			continue
		}
		if entry := &catalog[i]; entry.Name != e.Name && !contains(entry.Tags, e.Name) {
			entry.Tags = append(entry.Tags, e.Name)
		}
	}
	return catalog, nil
}

// Unmapped returns the source names no mapping entry refers to.
func Unmapped(m Mapping, sources []string) []string {
	mapped := make(map[string]struct{}, len(m))
	for _, e := range m {
		mapped[e.Name] = struct{}{}
	}
	var out []string
	for _, name := range sources {
		if _, ok := mapped[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// JSON serializes the catalog as an indented array of {name, tags, path}.
func (c Catalog) JSON() ([]byte, error) {
	if c == nil {
		c = Catalog{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode icon catalog")
	}
	return pretty.Pretty(data), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
