package types

import (
	"sync/atomic"

	"github.com/cottand/ilec/frontend/source"
)

// Fresher hands out type variables with unique IDs.
//
// One Fresher is owned by a compilation run and passed to whoever needs fresh variables.
// It is safe for concurrent use, so several modules compiled at once may share it.
type Fresher struct {
	next atomic.Uint64
}

func NewFresher() *Fresher {
	return &Fresher{}
}

func (f *Fresher) Fresh(at source.Positioner) *Variable {
	return &Variable{
		Range: source.RangeOf(at),
		ID:    f.next.Add(1),
	}
}
