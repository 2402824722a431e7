package segmenter

import (
	"unicode"
	"unicode/utf8"
)

// UnitSplitter partitions text into the natural break units a Segmenter packs.
// Every character of text must belong to exactly one unit and the units, in
// order, must concatenate back to text.
type UnitSplitter interface {
	Units(text string) []string
}

// UnitSplitterFunc adapts an ordinary function to a UnitSplitter
type UnitSplitterFunc func(string) []string

func (fn UnitSplitterFunc) Units(text string) []string {
	return fn(text)
}

// PunctuationSplitter provides a basic sentence splitter without any
// language data. A unit ends:
// - after a run of '.', '!' or '?' (and trailing closing quotes/brackets)
// followed by whitespace
// - after a full-width terminator ('。', '！', '？')
// - after a line break
// The whitespace that follows a boundary stays with the preceding unit.
type PunctuationSplitter struct{}

var _ UnitSplitter = (*PunctuationSplitter)(nil)

func (s PunctuationSplitter) Units(text string) []string {
	var (
		units []string
		start int
		i     int
	)
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		switch {
		case r == '\n':
		case isTerminator(r):
			wide := isWideTerminator(r)
			for i < len(text) {
				next, n := utf8.DecodeRuneInString(text[i:])
				if !isTerminator(next) && !isCloser(next) {
					break
				}
				wide = wide || isWideTerminator(next)
				i += n
			}
			if i < len(text) && !wide {
				if next, _ := utf8.DecodeRuneInString(text[i:]); !unicode.IsSpace(next) {
					continue
				}
			}
		default:
			continue
		}
		i = skipSpace(text, i)
		units = append(units, text[start:i])
		start = i
	}
	if start < len(text) {
		units = append(units, text[start:])
	}
	return units
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, n := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += n
	}
	return i
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?':
		return true
	}
	return isWideTerminator(r)
}

func isWideTerminator(r rune) bool {
	switch r {
	case '。', '！', '？':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '»', '”', '’', '」', '』', '）':
		return true
	}
	return false
}
