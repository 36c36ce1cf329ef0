// Package build expands every file of a site and writes the results.
package build

import (
	"bytes"
	"context"
	"log"
	"path/filepath"

	"github.com/adnsv/sitepp/directive"
	"github.com/adnsv/sitepp/model"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const DefaultOutDir = "static_site_out"

type Builder struct {
	// Fs is rooted at the site directory. Manifest paths and OutDir are
	// resolved against it.
	Fs afero.Fs

	OutDir    string
	Jobs      int // files expanded concurrently, at least 1
	MaxPasses int // see directive.Engine.MaxPasses
	DryRun    bool
}

// Output describes one expanded file.
type Output struct {
	Source     string
	Path       string
	Passes     int
	Expansions int
	Written    bool

	content []byte
}

type Report struct {
	Outputs []*Output
}

func (r *Report) Written() int {
	n := 0
	for _, o := range r.Outputs {
		if o.Written {
			n++
		}
	}
	return n
}

// Build expands all files of the site and then writes them. Nothing is
// written unless every file expanded successfully.
func (b *Builder) Build(ctx context.Context, site *model.Site) (*Report, error) {
	outs, err := b.expandAll(ctx, site)
	if err != nil {
		return nil, err
	}

	rep := &Report{Outputs: outs}
	if b.DryRun {
		log.Printf("dry run, %d file(s) not written\n", len(outs))
		return rep, nil
	}
	for _, o := range outs {
		o.Written, err = writeIfChanged(b.Fs, o.Path, o.content)
		if err != nil {
			return nil, err
		}
		if o.Written {
			log.Printf("- writing %s\n", o.Path)
		} else {
			log.Printf("- unchanged %s\n", o.Path)
		}
	}
	return rep, nil
}

func (b *Builder) expandAll(ctx context.Context, site *model.Site) ([]*Output, error) {
	eng := directive.NewEngine(b.Fs, site.Assets)
	eng.MaxPasses = b.MaxPasses

	outDir := b.OutDir
	if outDir == "" {
		outDir = DefaultOutDir
	}

	jobs := b.Jobs
	if jobs < 1 {
		jobs = 1
	}

	outs := make([]*Output, len(site.Files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range site.Files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Printf("expanding %s\n", f.Path)
			res, err := eng.ExpandFile(f)
			if err != nil {
				return err
			}
			outs[i] = &Output{
				Source:     f.Path,
				Path:       filepath.Join(outDir, f.Path),
				Passes:     res.Passes,
				Expansions: res.Expansions,
				content:    []byte(res.Content),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}

func writeIfChanged(fs afero.Fs, fn string, data []byte) (bool, error) {
	if old, err := afero.ReadFile(fs, fn); err == nil && bytes.Equal(old, data) {
		return false, nil
	}
	if err := fs.MkdirAll(filepath.Dir(fn), 0755); err != nil {
		return false, err
	}
	if err := afero.WriteFile(fs, fn, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}
