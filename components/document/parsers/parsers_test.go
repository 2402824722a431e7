package parsers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"

	"github.com/bububa/atomic-sms/components/document"
	"github.com/bububa/atomic-sms/components/document/parsers/html"
)

func TestToText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		file    string
		want    string
	}{
		{
			name:    "html email",
			content: "<html><head><title>Reminder</title><style>p{color:red}</style></head><body><p>Hi Russ,</p>\n  <p>Please fill the   <a href=\"https://goog.gl/eOFBtw\">questionnaire</a>.</p></body></html>",
			want:    "Hi Russ,\n\nPlease fill the questionnaire (https://goog.gl/eOFBtw).",
		},
		{
			name:    "html line breaks and lists",
			content: "<html><body>Line one<br>Line two<ul><li>alpha</li><li>beta</li></ul></body></html>",
			want:    "Line one\nLine two\n- alpha\n- beta",
		},
		{
			name:    "html bare link",
			content: "<html><body><a href=\"https://example.com\">https://example.com</a></body></html>",
			want:    "https://example.com",
		},
		{
			name:    "markdown",
			content: "# Reminder\n\nHello *Russ*, see [the form](https://goog.gl/eOFBtw).\n",
			file:    "reminder.md",
			want:    "Reminder\n\nHello Russ, see the form (https://goog.gl/eOFBtw).",
		},
		{
			name:    "text",
			content: "  Hi Russ,\r\nSee you.\r\n",
			file:    "reminder.txt",
			want:    "Hi Russ,\nSee you.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToText(context.Background(), document.New([]byte(tt.content), tt.file))
			if err != nil {
				t.Error(err)
				return
			}
			if got != tt.want {
				t.Errorf("invalid text, want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	parser := html.NewParser(html.WithMarkdown())
	buf := new(bytes.Buffer)
	if err := parser.Parse(context.Background(), bytes.NewReader([]byte("<p>Hello <strong>Russ</strong></p>")), buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "**Russ**") {
		t.Errorf("expecting markdown emphasis, got %q", buf.String())
	}
}

func TestDocxToText(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("Hi Russ,")
	w.AddParagraph().AddText("Please fill the questionnaire.")
	buf := new(bytes.Buffer)
	if _, err := w.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	doc := document.New(buf.Bytes(), "reminder.docx")
	if doc.Kind != document.DocxKind {
		t.Fatalf("invalid kind, want %s, got %s", document.DocxKind, doc.Kind)
	}
	got, err := ToText(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	paragraphs := strings.Split(got, "\n\n")
	if len(paragraphs) != 2 {
		t.Fatalf("invalid paragraphs, want 2, got %d: %q", len(paragraphs), got)
	}
	if !strings.Contains(paragraphs[0], "Hi Russ,") || !strings.Contains(paragraphs[1], "questionnaire") {
		t.Errorf("invalid text %q", got)
	}
}

func TestPDFToText(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		opts    []Option
		want    string
		wantErr bool
	}{
		{name: "plain", file: "letter.pdf", want: "Hi Russ,\nPlease fill the questionnaire.\n\nSee you."},
		{name: "password ignored on plain", file: "letter.pdf", opts: []Option{WithPassword("s3cret")}, want: "Hi Russ,\nPlease fill the questionnaire.\n\nSee you."},
		{name: "encrypted", file: "letter-encrypted.pdf", opts: []Option{WithPassword("s3cret")}, want: "Hello there."},
		{name: "encrypted without password", file: "letter-encrypted.pdf", wantErr: true},
		{name: "encrypted wrong password", file: "letter-encrypted.pdf", opts: []Option{WithPassword("guess")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs, err := os.ReadFile(filepath.Join("testdata", tt.file))
			if err != nil {
				t.Fatal(err)
			}
			doc := document.New(bs, tt.file)
			if doc.Kind != document.PDFKind {
				t.Fatalf("invalid kind, want %s, got %s", document.PDFKind, doc.Kind)
			}
			got, err := ToText(context.Background(), doc, tt.opts...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expecting error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("invalid text, want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestInvalidBinary(t *testing.T) {
	for _, name := range []string{"letter.pdf", "letter.docx"} {
		if _, err := ToText(context.Background(), document.New([]byte("not a binary document"), name)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}
