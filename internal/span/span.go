// Package span provides source position types shared by the lexer, parser,
// and runtime error reporting.
package span

import "fmt"

// Pos is a location in source text.
type Pos struct {
	Offset int `json:"offset"` // byte offset from start of source
	Line   int `json:"line"`   // 1-based
	Column int `json:"column"` // 1-based
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open range [Start, End) in source text.
type Span struct {
	Start Pos `json:"start"`
	End   Pos `json:"end"`
}

// At builds a zero-width span at a single position.
func At(p Pos) Span {
	return Span{Start: p, End: p}
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}
