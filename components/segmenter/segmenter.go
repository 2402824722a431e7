// Package segmenter splits a message into ordered, length-bounded parts for
// transports with a hard size limit such as SMS. Parts break on natural unit
// boundaries (sentences by default) whenever possible; a unit that cannot fit
// in any part on its own is hard-split into limit-sized windows.
//
// For any valid limit the parts of a message concatenate back to the message,
// none of them is empty and none is longer than the limit, except a single
// grapheme cluster that alone measures more than the limit.
package segmenter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clipperhouse/uax29/graphemes"
)

// DefaultLimit is the capacity of a single GSM-7 SMS
const DefaultLimit = 160

var (
	// ErrInvalidLimit is returned for a non-positive part limit
	ErrInvalidLimit = errors.New("segmenter: limit must be positive")
	// ErrUnknownCounter is returned by CounterByName for an unregistered name
	ErrUnknownCounter = errors.New("segmenter: unknown counter")
)

// Segmenter packs the units of a message into parts no longer than its limit.
// It holds no mutable state and is safe for concurrent use.
type Segmenter struct {
	Options
}

// New creates a Segmenter. Without options it splits on punctuation, counts
// characters and uses DefaultLimit.
func New(opts ...Option) (*Segmenter, error) {
	ret := &Segmenter{
		Options: Options{
			limit: DefaultLimit,
		},
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, ret.limit)
	}
	if ret.splitter == nil {
		ret.splitter = PunctuationSplitter{}
	}
	if ret.counter == nil {
		ret.counter = RunesCounter{}
	}
	return ret, nil
}

// Segment splits text into parts of at most limit characters using the
// default punctuation splitter.
func Segment(text string, limit int) ([]string, error) {
	s, err := New(WithLimit(limit))
	if err != nil {
		return nil, err
	}
	return s.Split(text)
}

// Split returns the text of every part of text in order. Empty text yields
// an empty slice.
func (s *Segmenter) Split(text string) ([]string, error) {
	parts, err := s.Parts(text)
	if err != nil {
		return nil, err
	}
	return Texts(parts), nil
}

// Parts splits text into parts. The algorithm:
// 1. Splits the text into units
// 2. Appends units to the current part while the part stays within the limit
// 3. Starts a new part when the next unit does not fit
// 4. Hard-splits a unit longer than the limit into limit-sized windows; the
// last window opens the next part
func (s *Segmenter) Parts(text string) ([]Part, error) {
	if s.limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, s.limit)
	}
	b := &builder{
		counter: s.counter,
		parts:   make([]Part, 0),
	}
	if text == "" {
		return b.parts, nil
	}
	for i, unit := range s.splitter.Units(text) {
		if unit == "" {
			continue
		}
		if s.counter.Count(b.buffer.String()+unit) <= s.limit {
			b.append(i, unit, false)
			continue
		}
		b.flush()
		if s.counter.Count(unit) <= s.limit {
			b.append(i, unit, false)
			continue
		}
		windows := s.hardSplit(unit)
		for _, window := range windows[:len(windows)-1] {
			b.append(i, window, true)
			b.flush()
		}
		b.append(i, windows[len(windows)-1], true)
	}
	b.flush()
	return b.parts, nil
}

// hardSplit cuts unit into successive windows no longer than the limit.
// Windows advance by grapheme cluster so no user-perceived character is cut;
// a single cluster longer than the limit becomes a window of its own.
func (s *Segmenter) hardSplit(unit string) []string {
	var (
		windows []string
		window  strings.Builder
	)
	for _, g := range graphemes.SegmentAll([]byte(unit)) {
		if window.Len() > 0 && s.counter.Count(window.String()+string(g)) > s.limit {
			windows = append(windows, window.String())
			window.Reset()
		}
		window.Write(g)
	}
	if window.Len() > 0 {
		windows = append(windows, window.String())
	}
	return windows
}

// builder accumulates the part under construction
type builder struct {
	counter Counter
	buffer  strings.Builder
	current Part
	parts   []Part
}

func (b *builder) append(unitIndex int, text string, hard bool) {
	if b.buffer.Len() == 0 {
		b.current.StartUnit = unitIndex
	}
	b.buffer.WriteString(text)
	b.current.EndUnit = unitIndex + 1
	b.current.HardSplit = b.current.HardSplit || hard
}

func (b *builder) flush() {
	if b.buffer.Len() == 0 {
		return
	}
	b.current.Text = b.buffer.String()
	b.current.Size = b.counter.Count(b.current.Text)
	b.current.Index = len(b.parts)
	b.parts = append(b.parts, b.current)
	b.current = Part{}
	b.buffer.Reset()
}
