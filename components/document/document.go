package document

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Kind is the markup a notification body is written in
type Kind = string

const (
	TextKind     Kind = "text"
	HTMLKind     Kind = "html"
	MarkdownKind Kind = "markdown"
	PDFKind      Kind = "pdf"
	DocxKind     Kind = "docx"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Document is a notification body with metadata
type Document struct {
	Content []byte
	Kind    Kind
	Meta    map[string]string
}

// New wraps content, detecting its kind from name and content
func New(content []byte, name string) *Document {
	ret := &Document{
		Content: content,
		Kind:    Detect(content, name),
		Meta:    make(map[string]string, 2),
	}
	if name != "" {
		ret.Meta["filename"] = name
	}
	ret.Meta["mime"] = mimetype.Detect(content).String()
	return ret
}

// Detect guesses the kind of content. The file extension wins when it is
// known; otherwise the content is sniffed.
func Detect(content []byte, name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return MarkdownKind
	case ".html", ".htm":
		return HTMLKind
	case ".txt":
		return TextKind
	case ".pdf":
		return PDFKind
	case ".docx":
		return DocxKind
	}
	mime := mimetype.Detect(content)
	switch {
	case mime.Is("text/html"):
		return HTMLKind
	case mime.Is("application/pdf"):
		return PDFKind
	case mime.Is(docxMIME):
		return DocxKind
	}
	return TextKind
}
