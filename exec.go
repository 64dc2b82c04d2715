package iconpack

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/esimov/iconpack/utils"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Builder runs the whole icon pack build described by a Config.
type Builder struct {
	Fs       afero.Fs
	Config   *Config
	Acquirer *Acquirer
	// Log receives the status messages, it may be nil.
	Log     io.Writer
	Spinner *utils.Spinner
}

// Report summarizes a successful build.
type Report struct {
	Version  string
	Icons    int
	Unmapped []string
	Archive  string
	Elapsed  time.Duration
}

// job is a single icon handed to a worker.
type job struct {
	index int
	name  string
}

// result holds the normalized icon or the reason it failed.
type result struct {
	index int
	name  string
	data  []byte
	err   error
}

// NewBuilder wires a builder for cfg over fs, fetching sources with fetcher.
func NewBuilder(fs afero.Fs, cfg *Config, fetcher Fetcher, log io.Writer) *Builder {
	return &Builder{
		Fs:     fs,
		Config: cfg,
		Acquirer: &Acquirer{
			Tree:    cfg.SourceTree(fs),
			Fetcher: fetcher,
			URL:     cfg.Source.Repo,
			Offline: cfg.Source.Offline,
		},
		Log: log,
	}
}

// Execute acquires the sources, normalizes every mapped icon and writes the
// package and its archive. Nothing is written to the output tree unless
// every icon has been normalized; per-icon failures are returned together
// as a *BatchError.
func (b *Builder) Execute(ctx context.Context) (*Report, error) {
	now := time.Now()
	cfg := b.Config
	norm := cfg.Normalizer()
	if err := norm.Validate(); err != nil {
		return nil, err
	}

	b.status(utils.StatusMessage, "fetching %s", cfg.Source.Repo)
	version, err := b.Acquirer.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	b.status(utils.DefaultMessage, "icon source version: %s", version)

	tree := b.Acquirer.Tree
	names, err := tree.IconNames()
	if err != nil {
		return nil, err
	}
	mapping, err := tree.ReadMapping()
	if err != nil {
		return nil, err
	}
	catalog, err := BuildCatalog(mapping, names, norm.Ext())
	if err != nil {
		return nil, err
	}
	unmapped := Unmapped(mapping, names)
	for _, name := range unmapped {
		b.status(utils.WarningMessage, "skipping %s: not referenced by the mapping", name)
	}

	if err := CheckAssets(b.Fs, cfg.Assets.Dir, cfg.Assets.Files); err != nil {
		return nil, err
	}
	manifest, err := StitchManifest(b.Fs, filepath.Join(cfg.Assets.Dir, cfg.Assets.Manifest), cfg.Assets.VersionField, version)
	if err != nil {
		return nil, err
	}

	icons, err := b.normalizeAll(ctx, tree, norm, catalog)
	if err != nil {
		return nil, err
	}

	if err := b.writePackage(catalog, icons, manifest); err != nil {
		return nil, err
	}
	archive := cfg.Output.ArchivePath()
	if err := Archive(b.Fs, cfg.Output.PackageRoot(), archive); err != nil {
		return nil, err
	}

	return &Report{
		Version:  version,
		Icons:    len(catalog),
		Unmapped: unmapped,
		Archive:  archive,
		Elapsed:  time.Since(now),
	}, nil
}

// normalizeAll fans the catalog out to the workers and waits for all of them.
// The returned slice follows the catalog order.
func (b *Builder) normalizeAll(ctx context.Context, tree SourceTree, norm *Normalizer, catalog Catalog) ([][]byte, error) {
	workers := b.workers(len(catalog))

	jobs := make(chan job)
	go func() {
		// Close the jobs channel once every icon has been handed out.
		defer close(jobs)
		for i, entry := range catalog {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{index: i, name: entry.Name}:
			}
		}
	}()

	ch := make(chan result)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			consumer(tree, norm, jobs, ch)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	if b.Spinner != nil {
		b.Spinner.Start()
	}

	var (
		out      = make([][]byte, len(catalog))
		failures []result
		done     int
	)
	for res := range ch {
		done++
		if b.Spinner != nil {
			b.Spinner.Update(fmt.Sprintf("%s %s",
				utils.DecorateText("⚡ ICONPACK", utils.StatusMessage),
				utils.DecorateText(fmt.Sprintf("⇢ normalizing icons %d/%d", done, len(catalog)), utils.DefaultMessage),
			))
		}
		if res.err != nil {
			failures = append(failures, res)
			continue
		}
		out[res.index] = res.data
	}

	if b.Spinner != nil {
		if len(failures) > 0 {
			b.Spinner.StopMsg = utils.DecorateText("normalizing icons failed ✘", utils.ErrorMessage)
		} else {
			b.Spinner.StopMsg = utils.DecorateText(fmt.Sprintf("%s normalized ✔", utils.Pluralize(done, "icon")), utils.SuccessMessage)
		}
		b.Spinner.Stop()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].index < failures[j].index })
		batch := &BatchError{Total: len(catalog)}
		for _, f := range failures {
			batch.Failures = append(batch.Failures, IconFailure{Name: f.name, Err: f.err})
		}
		return nil, batch
	}
	return out, nil
}

// consumer reads the icons from the jobs channel, normalizes them
// and sends the outcome on the results channel.
func consumer(tree SourceTree, norm *Normalizer, jobs <-chan job, res chan<- result) {
	for j := range jobs {
		r := result{index: j.index, name: j.name}
		src, err := tree.ReadIcon(j.name)
		if err == nil {
			r.data, err = norm.Normalize(src)
		}
		r.err = err
		res <- r
	}
}

// workers limits the concurrently running workers to maxWorkers.
func (b *Builder) workers(jobs int) int {
	n := b.Config.Workers
	if n <= 0 || n > maxWorkers {
		n = runtime.NumCPU()
	}
	return utils.Clamp(n, 1, utils.Max(jobs, 1))
}

// writePackage lays out the package directory from scratch.
func (b *Builder) writePackage(catalog Catalog, icons [][]byte, manifest []byte) error {
	cfg := b.Config
	dir := cfg.Output.PackageDir()

	if err := b.Fs.RemoveAll(cfg.Output.PackageRoot()); err != nil {
		return errors.Wrap(err, "unable to clean the package directory")
	}
	iconDir := filepath.Join(dir, "icons")
	if err := b.Fs.MkdirAll(iconDir, 0755); err != nil {
		return errors.Wrap(err, "unable to create the package directory")
	}

	for i, entry := range catalog {
		if err := afero.WriteFile(b.Fs, filepath.Join(iconDir, entry.Path), icons[i], 0644); err != nil {
			return errors.Wrapf(err, "unable to write icon %s", entry.Name)
		}
	}

	index, err := catalog.JSON()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(b.Fs, filepath.Join(dir, "icons.json"), index, 0644); err != nil {
		return errors.Wrap(err, "unable to write the icon catalog")
	}

	if err := CopyAssets(b.Fs, cfg.Assets.Dir, cfg.Assets.Files, dir); err != nil {
		return err
	}
	if cfg.Assets.Previews != "" {
		previews := filepath.Join(cfg.Assets.Dir, cfg.Assets.Previews)
		if ok, _ := afero.DirExists(b.Fs, previews); ok {
			if err := CopyTree(b.Fs, previews, filepath.Join(dir, "previews")); err != nil {
				return err
			}
		}
	}

	if err := afero.WriteFile(b.Fs, filepath.Join(dir, "manifest.json"), manifest, 0644); err != nil {
		return errors.Wrap(err, "unable to write the manifest")
	}
	return nil
}

// status writes a decorated status line to the log, if any.
func (b *Builder) status(msgType utils.MessageType, format string, args ...any) {
	if b.Log == nil {
		return
	}
	fmt.Fprintln(b.Log, utils.DecorateText(fmt.Sprintf(format, args...), msgType))
}
