package directive

import (
	"fmt"

	"github.com/adnsv/sitepp/model"
	"github.com/spf13/afero"
)

// Recognized commands.
const (
	CmdStyleCopy  = "STATICSTYLECOPY"
	CmdScriptCopy = "STATICSCRIPTCOPY"
	CmdImport     = "STATICIMPORT"
)

// Resolver turns a parsed directive into the text that replaces its line.
// Every resolution reads its file afresh from fs.
type Resolver struct {
	fs     afero.Fs
	assets model.Registry
}

func NewResolver(fs afero.Fs, assets model.Registry) *Resolver {
	return &Resolver{fs: fs, assets: assets}
}

// Resolve returns the replacement for the whole line d was parsed from.
// A non-empty prefix stays on its own line above the expansion; the suffix
// follows the expansion's trailing newline.
func (r *Resolver) Resolve(d Directive, b model.Binding) (string, error) {
	s, err := r.expand(d, b)
	if err != nil {
		return "", err
	}
	if d.Prefix != "" {
		return d.Prefix + "\n" + s + d.Suffix, nil
	}
	return s + d.Suffix, nil
}

func (r *Resolver) expand(d Directive, b model.Binding) (string, error) {
	fail := func(kind error, subject string, err error) error {
		return &Error{Kind: kind, File: b.Path, Command: d.Command, Subject: subject, Err: err}
	}

	switch d.Command {
	case CmdStyleCopy:
		if !b.HasStyle() {
			return "", fail(ErrMissingBinding, "style", nil)
		}
		s, err := afero.ReadFile(r.fs, b.Style)
		if err != nil {
			return "", fail(ErrUnreadableFile, b.Style, err)
		}
		return fmt.Sprintf("<!-- %s -->\n<style>\n%s\n</style>\n<!-- END %s -->\n", b.Style, s, b.Style), nil

	case CmdScriptCopy:
		if !b.HasScript() {
			return "", fail(ErrMissingBinding, "script", nil)
		}
		s, err := afero.ReadFile(r.fs, b.Script)
		if err != nil {
			return "", fail(ErrUnreadableFile, b.Script, err)
		}
		return fmt.Sprintf("<!-- %s -->\n<script>\n%s\n</script>\n<!-- END %s -->\n", b.Script, s, b.Script), nil

	case CmdImport:
		if len(d.Args) == 0 {
			return "", fail(ErrMissingArgument, "asset name", nil)
		}
		name := d.Args[0]
		a, ok := r.assets.Lookup(name)
		if !ok {
			return "", fail(ErrUnknownAsset, name, nil)
		}
		s, err := afero.ReadFile(r.fs, a.Path)
		if err != nil {
			return "", fail(ErrUnreadableFile, a.Path, err)
		}
		tag := name + " - " + a.Path
		return fmt.Sprintf("<!-- %s -->\n%s\n<!-- END %s -->\n", tag, s, tag), nil
	}

	return "", fail(ErrUnknownCommand, d.Command, nil)
}
