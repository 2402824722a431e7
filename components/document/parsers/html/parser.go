package html

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/bububa/atomic-sms/components/document"
)

// Markers for breaks found in the markup. Line breaks add up; block and
// paragraph boundaries only guarantee one or two newlines.
const (
	lineMark      = '\uE000'
	blockMark     = '\uE001'
	paragraphMark = '\uE002'
)

const (
	dropped    = "head,title,script,style,noscript,template"
	paragraphs = "p,h1,h2,h3,h4,h5,h6,blockquote,pre,table"
	blocks     = "div,li,tr,ul,ol,section,article,header,footer"
)

// Parser is a parser which extracts the plain text of an html document.
// Links keep their target as "text (href)".
type Parser struct {
	markdown bool
	opts     []converter.ConvertOptionFunc
}

var _ document.Parser = (*Parser)(nil)

type Option func(*Parser)

// WithMarkdown makes the parser emit markdown instead of plain text, for
// transports that render it
func WithMarkdown(opts ...converter.ConvertOptionFunc) Option {
	return func(p *Parser) {
		p.markdown = true
		p.opts = opts
	}
}

func NewParser(opts ...Option) *Parser {
	ret := new(Parser)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Parse try to parse a html content from a bytes.Reader into plain text then write to an io.Writer
func (h *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	if h.markdown {
		bs, err := htmltomarkdown.ConvertReader(reader, h.opts...)
		if err != nil {
			return err
		}
		_, err = writer.Write(bytes.TrimSpace(bs))
		return err
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return err
	}
	doc.Find(dropped).Remove()
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		text := strings.TrimSpace(s.Text())
		switch {
		case text == "":
			s.SetText(href)
		case text != href && strings.TrimPrefix(href, "mailto:") != text:
			s.SetText(text + " (" + href + ")")
		}
	})
	doc.Find("li").PrependHtml("- ")
	doc.Find("br").ReplaceWithHtml(string(lineMark))
	doc.Find(blocks).PrependHtml(string(blockMark)).AppendHtml(string(blockMark))
	doc.Find(paragraphs).PrependHtml(string(paragraphMark)).AppendHtml(string(paragraphMark))
	_, err = io.WriteString(writer, collapse(doc.Text()))
	return err
}

// collapse applies html whitespace rules: runs of whitespace become a single
// space, break markers become newlines (at most one blank line) and the
// result carries no leading or trailing whitespace.
func collapse(text string) string {
	var (
		sb       strings.Builder
		space    bool
		newlines int
	)
	for _, r := range text {
		switch {
		case r == lineMark:
			newlines++
		case r == blockMark:
			newlines = max(newlines, 1)
		case r == paragraphMark:
			newlines = max(newlines, 2)
		case unicode.IsSpace(r):
			space = true
		default:
			if sb.Len() > 0 {
				if newlines > 0 {
					sb.WriteString(strings.Repeat("\n", min(newlines, 2)))
				} else if space {
					sb.WriteByte(' ')
				}
			}
			newlines = 0
			space = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
