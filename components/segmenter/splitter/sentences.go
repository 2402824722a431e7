package splitter

import (
	"github.com/clipperhouse/uax29/sentences"

	"github.com/bububa/atomic-sms/components/segmenter"
)

// Sentences splits text on Unicode sentence boundaries (UAX #29). Trailing
// spaces and line breaks stay with the sentence they follow.
type Sentences struct {
	Options
}

var _ segmenter.UnitSplitter = (*Sentences)(nil)

func NewSentences() *Sentences {
	ret := new(Sentences)
	ret.iterator = func(data []byte) Iterator {
		return sentences.NewSegmenter(data)
	}
	return ret
}
