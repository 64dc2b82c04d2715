package iconpack

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultVariant is the preset used when none is requested.
const DefaultVariant = "png128"

// Config describes a complete icon pack build.
type Config struct {
	Variant string       `yaml:"variant"`
	Source  SourceConfig `yaml:"source"`
	Assets  AssetsConfig `yaml:"assets"`
	Output  OutputConfig `yaml:"output"`
	Canvas  Canvas       `yaml:"canvas"`
	Render  RenderConfig `yaml:"render"`
	// Workers is the number of icons normalized concurrently,
	// 0 uses the number of CPUs.
	Workers int `yaml:"workers"`
}

// SourceConfig locates the upstream icon repository and its files.
type SourceConfig struct {
	Repo      string `yaml:"repo"`
	Dir       string `yaml:"dir"`
	Icons     string `yaml:"icons"`
	Extension string `yaml:"extension"`
	Mapping   string `yaml:"mapping"`
	Version   string `yaml:"version"`
	Offline   bool   `yaml:"offline"`
}

// AssetsConfig lists the static files shipped with the package.
type AssetsConfig struct {
	Dir          string   `yaml:"dir"`
	Files        []string `yaml:"files"`
	Previews     string   `yaml:"previews,omitempty"`
	Manifest     string   `yaml:"manifest"`
	VersionField string   `yaml:"version_field"`
}

// OutputConfig names the produced package.
type OutputConfig struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"`
}

// RenderConfig selects how every icon is emitted.
type RenderConfig struct {
	Mode        Mode   `yaml:"mode"`
	Color       string `yaml:"color"`
	Format      string `yaml:"format"`
	Supersample int    `yaml:"supersample"`
}

// PackageRoot is the directory zipped into the archive.
func (o OutputConfig) PackageRoot() string {
	return filepath.Join(o.Dir, "package")
}

// PackageDir is the icon pack directory inside the package root.
func (o OutputConfig) PackageDir() string {
	return filepath.Join(o.PackageRoot(), o.Name+".sdIconPack")
}

// ArchivePath is the location of the distributable archive.
func (o OutputConfig) ArchivePath() string {
	return filepath.Join(o.Dir, o.Name+".streamDeckIconPack")
}

var presets = map[string]func(*Config){
	"png128": func(c *Config) {
		c.Canvas = Canvas{Size: 128, Padding: 32}
		c.Render = RenderConfig{Mode: RasterMode, Color: "white", Format: FormatPNG, Supersample: 1}
	},
	"png144": func(c *Config) {
		c.Canvas = Canvas{Size: 144, Padding: 32}
		c.Render = RenderConfig{Mode: RasterMode, Color: "white", Format: FormatPNG, Supersample: 2}
	},
	"svg": func(c *Config) {
		c.Canvas = Canvas{Size: 144, Padding: 32}
		c.Render = RenderConfig{Mode: VectorMode, Color: "white"}
	},
}

// Variants returns the names of the built-in presets.
func Variants() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the configuration of a built-in variant.
func Preset(variant string) (*Config, error) {
	apply, ok := presets[variant]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q, expected one of %v", variant, Variants())
	}
	cfg := &Config{
		Variant: variant,
		Source: SourceConfig{
			Repo:      "https://github.com/microsoft/vscode-codicons.git",
			Dir:       "vscode-codicons",
			Icons:     "src/icons",
			Extension: ".svg",
			Mapping:   "src/template/mapping.json",
			Version:   "package.json",
		},
		Assets: AssetsConfig{
			Dir:          "assets",
			Files:        []string{"cover.png", "icon.png", "license.txt"},
			Previews:     "previews",
			Manifest:     "manifest.json",
			VersionField: "Version",
		},
		Output: OutputConfig{
			Dir:  "output",
			Name: "com.visualstudio.code",
		},
	}
	apply(cfg)
	return cfg, nil
}

// LoadConfig starts from the named preset and overlays the YAML file at
// path on it, when path is not empty. The result is validated.
func LoadConfig(fs afero.Fs, variant, path string) (*Config, error) {
	if variant == "" {
		variant = DefaultVariant
	}
	cfg, err := Preset(variant)
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := c.Assets.Validate(); err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.Normalizer().Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// Validate validates the source configuration.
func (s *SourceConfig) Validate() error {
	if s.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if s.Repo == "" && !s.Offline {
		return fmt.Errorf("repo is required unless offline")
	}
	if s.Icons == "" {
		return fmt.Errorf("icons is required")
	}
	if len(s.Extension) < 2 || !strings.HasPrefix(s.Extension, ".") {
		return fmt.Errorf("extension must start with a dot, got %q", s.Extension)
	}
	if s.Mapping == "" {
		return fmt.Errorf("mapping is required")
	}
	if s.Version == "" {
		return fmt.Errorf("version is required")
	}
	return nil
}

// Validate validates the assets configuration.
func (a *AssetsConfig) Validate() error {
	if a.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if a.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if a.VersionField == "" {
		return fmt.Errorf("version_field is required")
	}
	return nil
}

// Validate validates the output configuration.
func (o *OutputConfig) Validate() error {
	if o.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if o.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Normalizer returns the icon normalizer described by the configuration.
func (c *Config) Normalizer() *Normalizer {
	return &Normalizer{
		Canvas:      c.Canvas,
		Mode:        c.Render.Mode,
		Color:       c.Render.Color,
		Format:      c.Render.Format,
		Supersample: c.Render.Supersample,
	}
}

// SourceTree returns the layout of the icon source checkout on fs.
func (c *Config) SourceTree(fs afero.Fs) SourceTree {
	return SourceTree{
		Fs:          fs,
		Root:        c.Source.Dir,
		IconDir:     c.Source.Icons,
		Ext:         c.Source.Extension,
		MappingFile: c.Source.Mapping,
		VersionFile: c.Source.Version,
	}
}
