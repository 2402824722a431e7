package parsers

import (
	"bytes"
	"context"

	"github.com/bububa/atomic-sms/components/document"
	"github.com/bububa/atomic-sms/components/document/parsers/docx"
	"github.com/bububa/atomic-sms/components/document/parsers/html"
	"github.com/bububa/atomic-sms/components/document/parsers/markdown"
	"github.com/bububa/atomic-sms/components/document/parsers/pdf"
	"github.com/bububa/atomic-sms/components/document/parsers/text"
)

type Options struct {
	password string
}

type Option func(*Options)

// WithPassword opens encrypted documents with password
func WithPassword(password string) Option {
	return func(o *Options) {
		o.password = password
	}
}

// ForKind returns the plain text parser for a document kind
func ForKind(kind document.Kind, opts ...Option) document.Parser {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	switch kind {
	case document.HTMLKind:
		return html.NewParser()
	case document.MarkdownKind:
		return markdown.NewParser()
	case document.PDFKind:
		return pdf.NewParser(pdf.WithPassword(o.password))
	case document.DocxKind:
		return docx.NewParser()
	}
	return text.NewParser()
}

// ToText parses doc with the parser for its kind
func ToText(ctx context.Context, doc *document.Document, opts ...Option) (string, error) {
	buf := new(bytes.Buffer)
	if err := ForKind(doc.Kind, opts...).Parse(ctx, bytes.NewReader(doc.Content), buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
