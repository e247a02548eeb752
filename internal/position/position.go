// Package position carries source locations shared by every AST node and
// diagnostic in this module.
package position

import "fmt"

// Point is a single line/column coordinate, copied unchanged from the AST
// producer's own locations (ESTree style: 1-indexed lines, 0-indexed
// columns).
type Point struct {
	Line   int
	Column int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Loc is the start/end span carried by every AST node, mirroring the
// `loc: {start, end}` shape the external AST producer emits.
type Loc struct {
	Start Point
	End   Point
}

// Key returns a stable string encoding of the span, used to derive scope
// keys from the node that opened them.
func (l Loc) Key() string {
	return fmt.Sprintf("%d:%d-%d:%d", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}

func (l Loc) String() string {
	return l.Key()
}

// Zero reports whether the location was never set (e.g. a synthesized node).
func (l Loc) Zero() bool {
	return l == Loc{}
}
