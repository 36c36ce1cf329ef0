package directive

import (
	"errors"
	"strings"
)

// Error kinds. Every *Error carries exactly one of them, so callers can test
// with errors.Is.
var (
	ErrUnreadableFile  = errors.New("unreadable file")
	ErrMissingBinding  = errors.New("missing binding")
	ErrUnknownAsset    = errors.New("unknown asset")
	ErrMissingArgument = errors.New("missing argument")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrPassLimit       = errors.New("pass limit exceeded")
)

// Error describes a failed expansion.
type Error struct {
	Kind     error
	File     string   // source path of the file being expanded
	Command  string   // directive command, empty for failures outside a directive
	Subject  string   // offending argument or path
	Location Location // zero when not tied to a directive
	Err      error    // underlying I/O error, if any
}

func (e *Error) Error() string {
	sb := strings.Builder{}
	sb.WriteString(e.File)
	if e.Location.Valid() {
		sb.WriteString(":" + e.Location.String())
	}
	if sb.Len() > 0 {
		sb.WriteString(": ")
	}
	if e.Command != "" {
		sb.WriteString("@@" + e.Command + ": ")
	}
	sb.WriteString(e.Kind.Error())
	if e.Subject != "" {
		sb.WriteString(" '" + e.Subject + "'")
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
