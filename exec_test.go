package iconpack

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

const (
	pkgDir  = "output/package/com.visualstudio.code.sdIconPack"
	archive = "output/com.visualstudio.code.streamDeckIconPack"
)

// newFixture lays out the static assets on a memory backed filesystem and
// returns a fetcher producing a small icon source checkout.
func newFixture(t *testing.T, icons map[string]string, mapping string) (afero.Fs, *fakeFetcher) {
	t.Helper()
	fs := afero.NewMemMapFs()

	assets := map[string]string{
		"assets/cover.png":      "cover",
		"assets/icon.png":       "icon",
		"assets/license.txt":    "MIT",
		"assets/manifest.json":  `{"Name":"Visual Studio Code","Version":"0.0.0","Icons":"icons.json"}`,
		"assets/previews/a.png": "preview",
	}
	for path, content := range assets {
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	files := map[string]string{
		"package.json":              `{"name":"@vscode/codicons","version":"0.0.40"}`,
		"src/template/mapping.json": mapping,
	}
	for name, markup := range icons {
		files["src/icons/"+name+".svg"] = markup
	}
	return fs, &fakeFetcher{fs: fs, files: files}
}

func defaultIcons() map[string]string {
	return map[string]string{
		"a":      squareIcon,
		"b":      squareIcon,
		"c":      squareIcon,
		"orphan": squareIcon,
	}
}

func newTestBuilder(t *testing.T, fs afero.Fs, fetcher Fetcher, variant string) (*Builder, *bytes.Buffer) {
	t.Helper()
	cfg, err := Preset(variant)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Workers = 2

	var log bytes.Buffer
	return NewBuilder(fs, cfg, fetcher, &log), &log
}

func TestExec_ShouldBuildTheVectorPackage(t *testing.T) {
	assert := assert.New(t)

	fs, fetcher := newFixture(t, defaultIcons(), `{"a":1,"b":1,"c":2}`)
	assert.NoError(afero.WriteFile(fs, "output/package/stale.txt", []byte("stale"), 0644))

	b, log := newTestBuilder(t, fs, fetcher, "svg")
	report, err := b.Execute(context.Background())
	assert.NoError(err)

	assert.Equal("0.0.40", report.Version)
	assert.Equal(2, report.Icons)
	assert.Equal([]string{"orphan"}, report.Unmapped)
	assert.Equal(filepath.FromSlash(archive), report.Archive)
	assert.Contains(log.String(), "skipping orphan")

	for _, name := range []string{"icons/a.svg", "icons/c.svg", "icons.json", "manifest.json", "cover.png", "icon.png", "license.txt", "previews/a.png"} {
		ok, err := afero.Exists(fs, filepath.Join(pkgDir, name))
		assert.NoError(err)
		assert.True(ok, "missing %s", name)
	}
	for _, name := range []string{pkgDir + "/icons/b.svg", pkgDir + "/icons/orphan.svg", "output/package/stale.txt"} {
		ok, _ := afero.Exists(fs, name)
		assert.False(ok, "unexpected %s", name)
	}

	icon, err := afero.ReadFile(fs, pkgDir+"/icons/a.svg")
	assert.NoError(err)
	assert.Contains(string(icon), `<path d="M32 32H112V112H32z"/>`)

	index, err := afero.ReadFile(fs, pkgDir+"/icons.json")
	assert.NoError(err)
	var entries []IconEntry
	assert.NoError(json.Unmarshal(index, &entries))
	assert.Equal([]IconEntry{
		{Name: "a", Tags: []string{"b"}, Path: "a.svg"},
		{Name: "c", Tags: []string{}, Path: "c.svg"},
	}, entries)

	manifest, err := afero.ReadFile(fs, pkgDir+"/manifest.json")
	assert.NoError(err)
	assert.Equal("0.0.40", gjson.GetBytes(manifest, "Version").String())

	zipped := readArchive(t, fs, archive)
	assert.Contains(zipped, "com.visualstudio.code.sdIconPack/icons/a.svg")
	assert.Contains(zipped, "com.visualstudio.code.sdIconPack/previews/a.png")
	assert.Equal(string(manifest), zipped["com.visualstudio.code.sdIconPack/manifest.json"])
	assert.NotContains(zipped, "stale.txt")
}

func TestExec_ShouldBuildTheRasterPackage(t *testing.T) {
	assert := assert.New(t)

	fs, fetcher := newFixture(t, defaultIcons(), `{"a":1,"b":1,"c":2}`)
	b, _ := newTestBuilder(t, fs, fetcher, "png128")

	report, err := b.Execute(context.Background())
	assert.NoError(err)
	assert.Equal(2, report.Icons)

	data, err := afero.ReadFile(fs, pkgDir+"/icons/c.png")
	assert.NoError(err)
	assert.Equal(image.Rect(0, 0, 128, 128), decodeImg(t, data).Bounds())
}

func TestExec_ShouldNotWriteAnythingForAnInconsistentMapping(t *testing.T) {
	assert := assert.New(t)

	fs, fetcher := newFixture(t, defaultIcons(), `{"a":1,"d":2}`)
	b, _ := newTestBuilder(t, fs, fetcher, "svg")

	_, err := b.Execute(context.Background())
	var inconsistent *InconsistentMappingError
	if assert.True(errors.As(err, &inconsistent)) {
		assert.Equal([]string{"d"}, inconsistent.Missing)
	}
	assertNothingWritten(t, fs)
}

func TestExec_ShouldReportEveryMalformedIcon(t *testing.T) {
	assert := assert.New(t)

	icons := defaultIcons()
	icons["a"] = `<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0"/></svg>`
	icons["c"] = `<svg width="16" height="16"><path d="M0 0 X1"/></svg>`
	icons["d"] = squareIcon

	fs, fetcher := newFixture(t, icons, `{"a":1,"b":1,"c":2,"d":3}`)
	b, _ := newTestBuilder(t, fs, fetcher, "svg")

	_, err := b.Execute(context.Background())
	var batch *BatchError
	if assert.True(errors.As(err, &batch)) {
		assert.Equal(3, batch.Total)
		if assert.Len(batch.Failures, 2) {
			assert.Equal("a", batch.Failures[0].Name)
			assert.Equal("c", batch.Failures[1].Name)
		}
	}

	var malformed *MalformedSourceError
	assert.True(errors.As(err, &malformed))
	assertNothingWritten(t, fs)
}

func TestExec_ShouldStopOnMissingInputs(t *testing.T) {
	t.Run("fetch", func(t *testing.T) {
		fs, fetcher := newFixture(t, defaultIcons(), `{"a":1}`)
		fetcher.err = errors.New("network down")
		b, _ := newTestBuilder(t, fs, fetcher, "svg")

		_, err := b.Execute(context.Background())
		var fetchErr *SourceFetchError
		assert.True(t, errors.As(err, &fetchErr))
		assertNothingWritten(t, fs)
	})

	t.Run("asset", func(t *testing.T) {
		fs, fetcher := newFixture(t, defaultIcons(), `{"a":1}`)
		assert.NoError(t, fs.Remove("assets/license.txt"))
		b, _ := newTestBuilder(t, fs, fetcher, "svg")

		_, err := b.Execute(context.Background())
		var copyErr *AssetCopyError
		assert.True(t, errors.As(err, &copyErr))
		assertNothingWritten(t, fs)
	})

	t.Run("manifest", func(t *testing.T) {
		fs, fetcher := newFixture(t, defaultIcons(), `{"a":1}`)
		assert.NoError(t, fs.Remove("assets/manifest.json"))
		b, _ := newTestBuilder(t, fs, fetcher, "svg")

		_, err := b.Execute(context.Background())
		var tmplErr *TemplateReadError
		assert.True(t, errors.As(err, &tmplErr))
		assertNothingWritten(t, fs)
	})

	t.Run("mapping", func(t *testing.T) {
		fs, fetcher := newFixture(t, defaultIcons(), `{"a":1`)
		b, _ := newTestBuilder(t, fs, fetcher, "svg")

		_, err := b.Execute(context.Background())
		assert.Error(t, err)
		assertNothingWritten(t, fs)
	})
}

func TestExec_ShouldHonorCancellation(t *testing.T) {
	fs, fetcher := newFixture(t, defaultIcons(), `{"a":1,"b":1,"c":2}`)
	b, _ := newTestBuilder(t, fs, fetcher, "svg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Execute(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assertNothingWritten(t, fs)
}

func TestExec_WorkersShouldStayInRange(t *testing.T) {
	assert := assert.New(t)

	b, _ := newTestBuilder(t, afero.NewMemMapFs(), &fakeFetcher{}, "svg")
	b.Config.Workers = 4
	assert.Equal(4, b.workers(100))
	assert.Equal(3, b.workers(3))
	assert.Equal(1, b.workers(0))

	b.Config.Workers = maxWorkers + 1
	assert.LessOrEqual(b.workers(100), maxWorkers)
	assert.GreaterOrEqual(b.workers(100), 1)
}

func assertNothingWritten(t *testing.T, fs afero.Fs) {
	t.Helper()
	for _, path := range []string{"output/package", archive} {
		ok, err := afero.Exists(fs, path)
		assert.NoError(t, err)
		assert.False(t, ok, "unexpected %s", path)
	}
}
