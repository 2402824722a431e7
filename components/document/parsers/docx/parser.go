package docx

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/bububa/atomic-sms/components/document"
)

// Parser is a parser which extracts the paragraphs and tables of a Word
// template as plain text, separated by blank lines
type Parser struct{}

var _ document.Parser = (*Parser)(nil)

func NewParser() *Parser {
	return new(Parser)
}

// Parse try to parse a docx content from a bytes.Reader and write its text to an io.Writer
func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	doc, err := docx.Parse(reader, reader.Size())
	if err != nil {
		return err
	}
	blocks := make([]string, 0, len(doc.Document.Body.Items))
	for _, it := range doc.Document.Body.Items {
		var content string
		switch t := it.(type) {
		case *docx.Paragraph:
			content = t.String()
		case *docx.Table:
			content = t.String()
		}
		if content = strings.TrimSpace(content); content != "" {
			blocks = append(blocks, content)
		}
	}
	_, err = io.WriteString(writer, strings.Join(blocks, "\n\n"))
	return err
}
