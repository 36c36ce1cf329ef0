package directive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adnsv/sitepp/model"
	"github.com/spf13/afero"
)

// Result is the outcome of expanding one file.
type Result struct {
	Content    string
	Passes     int // passes that expanded at least one directive
	Expansions int // directives expanded across all passes
}

// Engine rewrites content until no directive is left in it.
//
// An Engine holds no per-file state; one engine may expand several files
// concurrently.
type Engine struct {
	fs       afero.Fs
	resolver *Resolver

	// MaxPasses bounds the number of rewriting passes. Zero means no bound,
	// in which case an asset that imports itself never terminates.
	MaxPasses int
}

func NewEngine(fs afero.Fs, assets model.Registry) *Engine {
	return &Engine{fs: fs, resolver: NewResolver(fs, assets)}
}

// ExpandFile reads the binding's source file and expands it.
func (e *Engine) ExpandFile(b model.Binding) (*Result, error) {
	buf, err := afero.ReadFile(e.fs, b.Path)
	if err != nil {
		return nil, &Error{Kind: ErrUnreadableFile, File: b.Path, Subject: b.Path, Err: err}
	}
	return e.Expand(string(buf), b)
}

// Expand runs passes over content until one of them expands nothing.
func (e *Engine) Expand(content string, b model.Binding) (*Result, error) {
	res := &Result{Content: content}
	for {
		out, n, err := e.pass(res.Content, b)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return res, nil
		}
		res.Content = out
		res.Passes++
		res.Expansions += n
		if e.MaxPasses > 0 && res.Passes > e.MaxPasses {
			return nil, &Error{
				Kind:    ErrPassLimit,
				File:    b.Path,
				Subject: fmt.Sprintf("%d", e.MaxPasses),
			}
		}
	}
}

// pass expands at most one directive per line, top to bottom, and reports
// how many it expanded.
func (e *Engine) pass(content string, b model.Binding) (string, int, error) {
	lines := strings.Split(content, "\n")
	n := 0
	for i, line := range lines {
		d, ok := Parse(line)
		if !ok {
			continue
		}
		s, err := e.resolver.Resolve(d, b)
		if err != nil {
			var de *Error
			if errors.As(err, &de) {
				de.Location = locate(line, i, d.Offset)
			}
			return "", 0, err
		}
		lines[i] = s
		n++
	}
	return strings.Join(lines, "\n"), n, nil
}
