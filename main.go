package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/adnsv/go-utils/fs"
	"github.com/adnsv/sitepp/build"
	"github.com/adnsv/sitepp/model"
	"github.com/fatih/color"
	cli "github.com/jawher/mow.cli"
	"github.com/spf13/afero"
)

func main() {
	siteDir := ""
	manifestFN := "static_site.json"
	outDir := build.DefaultOutDir
	jobs := 1
	maxPasses := 0
	dryRun := false
	watch := false

	app := cli.App("sitepp", "Expands <!-- @@COMMAND --> directives in static site sources")
	app.Version("version", appVersion())
	app.Spec = "[-m=<MANIFEST>] [-o=<OUTDIR>] [-j=<JOBS>] [--max-passes=<N>] [-n] [-w] DIR"
	app.StringPtr(&manifestFN, cli.StringOpt{
		Name:   "m manifest",
		Value:  manifestFN,
		Desc:   "site manifest, relative to DIR (.json or .yaml)",
		EnvVar: "SITEPP_MANIFEST",
	})
	app.StringPtr(&outDir, cli.StringOpt{
		Name:   "o out",
		Value:  outDir,
		Desc:   "output directory, relative to DIR",
		EnvVar: "SITEPP_OUT",
	})
	app.IntOptPtr(&jobs, "j jobs", jobs, "number of files expanded concurrently")
	app.IntOptPtr(&maxPasses, "max-passes", maxPasses, "fail when a file needs more expansion passes than this (0: no limit)")
	app.BoolOptPtr(&dryRun, "n dry-run", false, "expand everything but do not write any output")
	app.BoolOptPtr(&watch, "w watch", false, "rebuild whenever a file in DIR changes")
	app.StringArgPtr(&siteDir, "DIR", "", "site directory")

	app.Action = func() {
		if st, err := os.Stat(siteDir); err != nil {
			fatal(err)
		} else if !st.IsDir() {
			fatal(fmt.Errorf("%s is not a directory", siteDir))
		}
		if !fs.FileExists(filepath.Join(siteDir, manifestFN)) {
			fatal(fmt.Errorf("missing %s", filepath.Join(siteDir, manifestFN)))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		b := &build.Builder{
			Fs:        afero.NewBasePathFs(afero.NewOsFs(), siteDir),
			OutDir:    outDir,
			Jobs:      jobs,
			MaxPasses: maxPasses,
			DryRun:    dryRun,
		}
		run := func() error {
			site, err := model.LoadSite(b.Fs, manifestFN)
			if err != nil {
				return err
			}
			rep, err := b.Build(ctx, site)
			if err != nil {
				return err
			}
			log.Printf("%d file(s) expanded, %d written\n", len(rep.Outputs), rep.Written())
			return nil
		}

		if err := run(); err != nil {
			fatal(err)
		}
		if !watch {
			return
		}

		w, err := build.NewWatcher(siteDir, outDir, run)
		if err != nil {
			fatal(err)
		}
		if err := w.Run(ctx); err != nil {
			fatal(err)
		}
	}

	app.Run(os.Args)
}

func fatal(err error) {
	color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
