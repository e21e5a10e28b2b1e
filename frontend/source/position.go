// Package source locates compiler artifacts in the documents they were read from
package source

import (
	"fmt"
	"go/token"
)

// Positioner allows finding the location in the original source file.
type Positioner interface {
	Pos() token.Pos // position of first character belonging to the node
	End() token.Pos // position of first character immediately after the node
}

// Range represents a range of positions in the source code.
//
// Range is embedded in every type and expression node. It never takes part
// in their equality or hashing.
type Range struct {
	PosStart token.Pos
	PosEnd   token.Pos
}

// Pos returns the starting position of the range.
func (r Range) Pos() token.Pos { return r.PosStart }

// End returns the ending position of the range.
func (r Range) End() token.Pos { return r.PosEnd }

// String returns a string representation of the range.
func (r Range) String() string {
	if r.PosStart == r.PosEnd {
		return fmt.Sprintf("%v", r.PosStart)
	}
	return fmt.Sprintf("%v-%v", r.PosStart, r.PosEnd)
}

// RangeBetween creates a Range between two Positioners.
func RangeBetween(fst, snd Positioner) Range {
	return Range{fst.Pos(), snd.End()}
}

// RangeOf creates a Range from a Positioner.
func RangeOf(p Positioner) Range {
	if p == nil {
		return Range{}
	}
	if asRange, ok := p.(Range); ok {
		return asRange
	}
	return Range{p.Pos(), p.End()}
}

// Location renders p as file:line:column using fset.
// When p carries no position, only the file-less placeholder "-" is returned.
func Location(fset *token.FileSet, p Positioner) string {
	if fset == nil || p == nil || !p.Pos().IsValid() {
		return "-"
	}
	pos := fset.Position(p.Pos())
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}
