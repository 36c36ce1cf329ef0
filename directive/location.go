package directive

import (
	"fmt"
	"unicode/utf8"
)

// Location points at the comment opener of a directive within the content
// of the pass in which it was found.
type Location struct {
	Line   int // 1-based line number
	Column int // 1-based column, counted in runes
}

func locate(line string, lineIndex int, byteOffset int) Location {
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	return Location{
		Line:   lineIndex + 1,
		Column: 1 + utf8.RuneCountInString(line[:byteOffset]),
	}
}

func (l Location) Valid() bool {
	return l.Line > 0 && l.Column > 0
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}
