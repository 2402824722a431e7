package text

import (
	"bytes"
	"context"
	"io"

	"github.com/bububa/atomic-sms/components/document"
)

// Parser passes plain text through, normalising line endings and trimming
// surrounding whitespace
type Parser struct{}

var _ document.Parser = (*Parser)(nil)

func NewParser() *Parser {
	return new(Parser)
}

func (p *Parser) Parse(ctx context.Context, reader *bytes.Reader, writer io.Writer) error {
	src, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	_, err = writer.Write(bytes.TrimSpace(src))
	return err
}
