package iconpack

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// StitchManifest loads the manifest template and sets its version field.
// The template keys keep their order.
func StitchManifest(fs afero.Fs, path, field, version string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &TemplateReadError{Path: path, Err: err}
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, &TemplateReadError{Path: path, Err: errors.New("template is not a JSON object")}
	}

	out, err := sjson.SetBytes(data, field, version)
	if err != nil {
		return nil, &TemplateReadError{Path: path, Err: errors.Wrapf(err, "unable to set %s", field)}
	}
	return pretty.Pretty(out), nil
}
