package iconpack

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestConfig_PresetsShouldBeValid(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{"png128", "png144", "svg"}, Variants())

	for _, variant := range Variants() {
		cfg, err := Preset(variant)
		assert.NoError(err)
		assert.NoError(cfg.Validate(), "variant %s", variant)
		assert.Equal(variant, cfg.Variant)
	}

	cfg, err := Preset("png128")
	assert.NoError(err)
	assert.Equal(Canvas{Size: 128, Padding: 32}, cfg.Canvas)
	assert.Equal(RasterMode, cfg.Render.Mode)
	assert.Equal("png", cfg.Normalizer().Ext())

	cfg, err = Preset("png144")
	assert.NoError(err)
	assert.Equal(Canvas{Size: 144, Padding: 32}, cfg.Canvas)
	assert.Equal(2, cfg.Render.Supersample)

	cfg, err = Preset("svg")
	assert.NoError(err)
	assert.Equal(VectorMode, cfg.Render.Mode)
	assert.Equal("svg", cfg.Normalizer().Ext())

	_, err = Preset("jpeg")
	assert.Error(err)
}

func TestConfig_ShouldOverlayTheConfigFile(t *testing.T) {
	assert := assert.New(t)

	fs := afero.NewMemMapFs()
	yml := `
canvas:
  size: 96
  padding: 16
render:
  mode: vector
output:
  name: com.example.icons
workers: 4
`
	assert.NoError(afero.WriteFile(fs, "iconpack.yml", []byte(yml), 0644))

	cfg, err := LoadConfig(fs, "png144", "iconpack.yml")
	assert.NoError(err)
	assert.Equal(Canvas{Size: 96, Padding: 16}, cfg.Canvas)
	assert.Equal(VectorMode, cfg.Render.Mode)
	assert.Equal("white", cfg.Render.Color)
	assert.Equal(4, cfg.Workers)
	assert.Equal("https://github.com/microsoft/vscode-codicons.git", cfg.Source.Repo)

	assert.Equal(filepath.Join("output", "package"), cfg.Output.PackageRoot())
	assert.Equal(filepath.Join("output", "package", "com.example.icons.sdIconPack"), cfg.Output.PackageDir())
	assert.Equal(filepath.Join("output", "com.example.icons.streamDeckIconPack"), cfg.Output.ArchivePath())
}

func TestConfig_ShouldUseTheDefaultVariant(t *testing.T) {
	cfg, err := LoadConfig(afero.NewMemMapFs(), "", "")
	assert.NoError(t, err)
	assert.Equal(t, DefaultVariant, cfg.Variant)
}

func TestConfig_ShouldRejectInvalidConfigs(t *testing.T) {
	testCases := map[string]string{
		"padding too large": "canvas: {size: 64, padding: 32}",
		"bad extension":     "source: {extension: svg}",
		"no repo":           "source: {repo: ''}",
		"no output name":    "output: {name: ''}",
		"raster format":     "render: {format: gif}",
		"negative workers":  "workers: -1",
		"not yaml":          "canvas: [",
	}

	for name, yml := range testCases {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			assert.NoError(t, afero.WriteFile(fs, "iconpack.yml", []byte(yml), 0644))

			_, err := LoadConfig(fs, "png128", "iconpack.yml")
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(afero.NewMemMapFs(), "png128", "missing.yml")
	assert.Error(t, err)

	_, err = LoadConfig(afero.NewMemMapFs(), "tiff", "")
	assert.Error(t, err)
}

func TestConfig_OfflineSourcesNeedNoRepo(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "iconpack.yml", []byte("source: {repo: '', offline: true}"), 0644))

	cfg, err := LoadConfig(fs, "svg", "iconpack.yml")
	assert.NoError(t, err)
	assert.True(t, cfg.Source.Offline)
}
