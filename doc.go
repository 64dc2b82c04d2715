/*
Package iconpack builds Stream Deck icon packs out of an SVG icon font repository.

It checks out the upstream repository, groups the icon names sharing the same
glyph into a catalog, scales and centers every icon into a fixed-size padded
canvas, either as a PNG bitmap or as rewritten SVG markup, and zips the result
together with the static branding assets into a distributable archive.

The package provides a command line interface. To check the supported flags type:

	$ iconpack --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/esimov/iconpack"
		"github.com/spf13/afero"
	)

	func main() {
		fs := afero.NewOsFs()
		cfg, err := iconpack.LoadConfig(fs, "svg", "")
		if err != nil {
			log.Fatal(err)
		}

		b := iconpack.NewBuilder(fs, cfg, iconpack.GitFetcher{}, os.Stderr)
		if _, err := b.Execute(context.Background()); err != nil {
			log.Fatalf("Error building the icon pack: %v", err)
		}
	}
*/
package iconpack
