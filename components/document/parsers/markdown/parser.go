package markdown

import (
	"bytes"
	"context"
	"io"

	"gitlab.com/golang-commonmark/markdown"

	"github.com/bububa/atomic-sms/components/document"
	"github.com/bububa/atomic-sms/components/document/parsers/html"
)

// Parser is a parser which renders markdown and extracts its plain text
type Parser struct {
	md   *markdown.Markdown
	html *html.Parser
}

var _ document.Parser = (*Parser)(nil)

func NewParser() *Parser {
	return &Parser{
		md:   markdown.New(markdown.XHTMLOutput(true), markdown.HTML(true), markdown.Linkify(true)),
		html: html.NewParser(),
	}
}

// Parse try to parse a markdown content from a bytes.Reader into plain text then write to an io.Writer
func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	src, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	rendered := p.md.RenderToString(src)
	return p.html.Parse(ctx, bytes.NewReader([]byte(rendered)), writer)
}
