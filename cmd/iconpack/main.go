package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/esimov/iconpack"
	"github.com/esimov/iconpack/utils"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const HelpBanner = `
┬┌─┐┌─┐┌┐┌┌─┐┌─┐┌─┐┬┌─
││  │ ││││├─┘├─┤│  ├┴┐
┴└─┘└─┘┘└┘┴  ┴ ┴└─┘┴ ┴

Stream Deck icon pack builder.
    Version: %s

`

// Version indicates the current build version.
var Version string

var (
	// Flags
	variant = flag.String("variant", iconpack.DefaultVariant, "Build variant: "+strings.Join(iconpack.Variants(), ", "))
	config  = flag.String("config", "", "YAML file overriding the variant settings")
	offline = flag.Bool("offline", false, "Use the existing icon checkout without fetching it")
	workers = flag.Int("conc", 0, "Number of icons to normalize concurrently (0 = number of CPUs)")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	fs := afero.NewOsFs()
	cfg, err := iconpack.LoadConfig(fs, *variant, *config)
	if err != nil {
		log.Fatalf(utils.DecorateText("Error: %v", utils.ErrorMessage), err)
	}
	if *offline {
		cfg.Source.Offline = true
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := iconpack.NewBuilder(fs, cfg, iconpack.GitFetcher{}, os.Stderr)
	builder.Spinner = utils.NewSpinner(os.Stderr, fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ ICONPACK", utils.StatusMessage),
		utils.DecorateText("⇢ normalizing icons...", utils.DefaultMessage),
	), time.Millisecond*80)

	report, err := builder.Execute(ctx)
	if err != nil {
		builder.Spinner.RestoreCursor()
		printError(err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nThe icon pack has been saved as: %s\n",
		utils.DecorateText(filepath.Base(report.Archive), utils.SuccessMessage),
	)
	fmt.Fprintf(os.Stderr, "%s from version %s, execution time: %s\n",
		utils.Pluralize(report.Icons, "icon"),
		report.Version,
		utils.DecorateText(utils.FormatTime(report.Elapsed), utils.SuccessMessage),
	)
}

// printError displays the reason the build failed, listing every icon
// that could not be normalized.
func printError(err error) {
	var batch *iconpack.BatchError
	if errors.As(err, &batch) {
		fmt.Fprintln(os.Stderr, utils.DecorateText(
			fmt.Sprintf("\n%d of %d icons failed to normalize:", len(batch.Failures), batch.Total),
			utils.ErrorMessage,
		))
		for _, f := range batch.Failures {
			fmt.Fprintf(os.Stderr, "\t%s %s\n",
				utils.DecorateText(f.Name, utils.StatusMessage),
				utils.DecorateText(f.Err.Error(), utils.DefaultMessage),
			)
		}
		return
	}
	fmt.Fprintln(os.Stderr, utils.DecorateText(fmt.Sprintf("\nError building the icon pack: %v", err), utils.ErrorMessage))
}
