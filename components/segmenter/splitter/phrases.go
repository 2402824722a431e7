package splitter

import (
	"github.com/clipperhouse/uax29/phrases"

	"github.com/bububa/atomic-sms/components/segmenter"
)

type Phrases struct {
	Options
}

var _ segmenter.UnitSplitter = (*Phrases)(nil)

func NewPhrases() *Phrases {
	ret := new(Phrases)
	ret.iterator = func(data []byte) Iterator {
		return phrases.NewSegmenter(data)
	}
	return ret
}
