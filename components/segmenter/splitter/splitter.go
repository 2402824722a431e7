// Package splitter provides segmenter.UnitSplitter implementations built on
// Unicode text segmentation.
package splitter

import (
	"errors"
	"fmt"

	"github.com/bububa/atomic-sms/components/segmenter"
)

var ErrUnknownSplitter = errors.New("splitter: unknown splitter")

// Splitter names accepted by ByName
const (
	SentencesSplitter   = "sentences"
	WordsSplitter       = "words"
	PhrasesSplitter     = "phrases"
	GraphemesSplitter   = "graphemes"
	PunctuationSplitter = "punctuation"
)

// ByName resolves a unit splitter from its configuration name. The empty
// name selects Sentences.
func ByName(name string) (segmenter.UnitSplitter, error) {
	switch name {
	case "", SentencesSplitter:
		return NewSentences(), nil
	case WordsSplitter:
		return NewWords(), nil
	case PhrasesSplitter:
		return NewPhrases(), nil
	case GraphemesSplitter:
		return NewGraphemes(), nil
	case PunctuationSplitter:
		return segmenter.PunctuationSplitter{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSplitter, name)
}
