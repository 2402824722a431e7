package splitter

import (
	"github.com/clipperhouse/uax29/words"

	"github.com/bububa/atomic-sms/components/segmenter"
)

// Words splits text on Unicode word boundaries; whitespace and punctuation
// runs are units of their own.
type Words struct {
	Options
}

var _ segmenter.UnitSplitter = (*Words)(nil)

func NewWords() *Words {
	ret := new(Words)
	ret.iterator = func(data []byte) Iterator {
		return words.NewSegmenter(data)
	}
	return ret
}
