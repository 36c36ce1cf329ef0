// Package directive expands @@COMMAND directives embedded in HTML comments.
//
// A directive occupies part of a single line:
//
//	<header><!-- @@STATICIMPORT nav --></header>
//
// and is replaced, together with the rest of its line, by the text it
// resolves to. Expansion is repeated over the whole content until a pass
// finds nothing left to expand, so imported files may contain directives
// of their own.
package directive

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	openMarker  = "<!--"
	closeMarker = "-->"
	sigil       = "@@"
)

// Directive is one parsed directive together with the text around it.
type Directive struct {
	Prefix  string // text before the comment opener, trimmed
	Command string
	Args    []string
	Suffix  string // text after the first closing marker, trimmed
	Offset  int    // byte offset of the comment opener in the line
}

// Parse finds the first directive in line.
//
// Openers are tried left to right. An opener that is not followed by
// optional whitespace, "@@", a word-character command, and either
// whitespace or "-->" is plain text, and so is one with another "<!--"
// before its closing marker. The closing marker is the first "-->" after
// the command, so anything after it, including further directives, ends up
// in Suffix.
func Parse(line string) (Directive, bool) {
	from := 0
	for {
		i := strings.Index(line[from:], openMarker)
		if i < 0 {
			return Directive{}, false
		}
		start := from + i
		if d, ok := parseAt(line, start); ok {
			return d, true
		}
		from = start + len(openMarker)
	}
}

func parseAt(line string, start int) (Directive, bool) {
	p := skipSpace(line, start+len(openMarker))
	if !strings.HasPrefix(line[p:], sigil) {
		return Directive{}, false
	}
	p += len(sigil)

	cmdStart := p
	for p < len(line) {
		r, size := utf8.DecodeRuneInString(line[p:])
		if !isWordRune(r) {
			break
		}
		p += size
	}
	if p == cmdStart {
		return Directive{}, false
	}

	rest := line[p:]
	end := strings.Index(rest, closeMarker)
	if end < 0 {
		return Directive{}, false
	}
	args := rest[:end]
	if args != "" {
		if r, _ := utf8.DecodeRuneInString(args); !unicode.IsSpace(r) {
			return Directive{}, false
		}
		if strings.Contains(args, openMarker) {
			return Directive{}, false
		}
	}

	return Directive{
		Prefix:  strings.TrimSpace(line[:start]),
		Command: line[cmdStart:p],
		Args:    strings.Fields(args),
		Suffix:  strings.TrimSpace(rest[end+len(closeMarker):]),
		Offset:  start,
	}, true
}

func skipSpace(s string, p int) int {
	for p < len(s) {
		r, size := utf8.DecodeRuneInString(s[p:])
		if !unicode.IsSpace(r) {
			break
		}
		p += size
	}
	return p
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
