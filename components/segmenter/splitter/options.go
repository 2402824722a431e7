package splitter

import (
	"github.com/bububa/atomic-sms/components/segmenter"
)

// Iterator walks the segments of a byte slice, as the uax29 segmenters do
type Iterator interface {
	Next() bool
	Text() string
	Err() error
}

type Options struct {
	iterator func([]byte) Iterator
}

var _ segmenter.UnitSplitter = (*Options)(nil)

// Units returns the segments of text in order. If the iterator stops early
// the unread remainder is returned as a final unit so the units always
// concatenate back to text.
func (o *Options) Units(text string) []string {
	if text == "" {
		return nil
	}
	var (
		units    []string
		consumed int
	)
	iter := o.iterator([]byte(text))
	for iter.Next() {
		unit := iter.Text()
		units = append(units, unit)
		consumed += len(unit)
	}
	if consumed < len(text) {
		units = append(units, text[consumed:])
	}
	return units
}
