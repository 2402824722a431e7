package splitter

import (
	"github.com/bububa/atomic-sms/components/segmenter"
	"github.com/clipperhouse/uax29/graphemes"
)

type Graphemes struct {
	Options
}

var _ segmenter.UnitSplitter = (*Graphemes)(nil)

func NewGraphemes() *Graphemes {
	ret := new(Graphemes)
	ret.iterator = func(data []byte) Iterator {
		return graphemes.NewSegmenter(data)
	}
	return ret
}
