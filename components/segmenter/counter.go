package segmenter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/graphemes"
	"github.com/pkoukk/tiktoken-go"

	"github.com/bububa/atomic-sms/components/gsm"
)

// Counter defines the interface for measuring the length of a piece of text.
// The limit a Segmenter enforces is expressed in the counter's units.
type Counter interface {
	// Count returns the length of text according to the implementation's
	// measuring strategy.
	Count(text string) int
}

// CounterFunc adapts an ordinary function to a Counter
type CounterFunc func(string) int

func (fn CounterFunc) Count(text string) int {
	return fn(text)
}

// RunesCounter measures text in characters (Unicode code points)
type RunesCounter struct{}

func (c RunesCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// BytesCounter measures text in UTF-8 bytes
type BytesCounter struct{}

func (c BytesCounter) Count(text string) int {
	return len(text)
}

// UTF16Counter measures text in UTF-16 code units, the unit UCS-2 transports
// and most JVM/JS runtimes report as string length.
type UTF16Counter struct{}

func (c UTF16Counter) Count(text string) int {
	return gsm.CodeUnits(text)
}

// GraphemesCounter measures text in user-perceived characters
type GraphemesCounter struct{}

func (c *GraphemesCounter) Count(text string) int {
	return len(graphemes.SegmentAll([]byte(text)))
}

// GSM7Counter measures text in GSM 03.38 septets
type GSM7Counter struct{}

func (c GSM7Counter) Count(text string) int {
	return gsm.Septets(text)
}

// CounterForEncoding returns the counter measuring text in the units of enc
func CounterForEncoding(enc gsm.Encoding) Counter {
	if enc == gsm.UCS2 {
		return UTF16Counter{}
	}
	return GSM7Counter{}
}

// TikTokenCounter provides accurate token counting using the tiktoken library,
// which implements the tokenization schemes used by OpenAI models.
type TikTokenCounter struct {
	tke *tiktoken.Tiktoken
}

// NewTikTokenCounter creates a new TikTokenCounter using the specified encoding.
// Common encodings include:
// - "cl100k_base" (GPT-4, ChatGPT)
// - "p50k_base" (GPT-3)
// - "r50k_base" (Codex)
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TikTokenCounter{tke: tke}, nil
}

// Count returns the exact number of tokens in the text according to the
// specified tiktoken encoding.
func (ttc *TikTokenCounter) Count(text string) int {
	return len(ttc.tke.Encode(text, nil, nil))
}

// Counter names accepted by CounterByName
const (
	CounterRunes     = "runes"
	CounterBytes     = "bytes"
	CounterUTF16     = "utf16"
	CounterGraphemes = "graphemes"
	CounterGSM7      = "gsm7"
)

// CounterByName resolves a counter from its configuration name. Names with a
// "tiktoken:" prefix load the named tiktoken encoding, e.g. "tiktoken:cl100k_base".
func CounterByName(name string) (Counter, error) {
	switch name {
	case "", CounterRunes:
		return RunesCounter{}, nil
	case CounterBytes:
		return BytesCounter{}, nil
	case CounterUTF16, "ucs2":
		return UTF16Counter{}, nil
	case CounterGraphemes:
		return new(GraphemesCounter), nil
	case CounterGSM7:
		return GSM7Counter{}, nil
	}
	if encoding, ok := strings.CutPrefix(name, "tiktoken:"); ok {
		return NewTikTokenCounter(encoding)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCounter, name)
}
