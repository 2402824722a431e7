package document

import (
	"bytes"
	"context"
	"io"
)

// Parser turns a notification body into the plain text that gets segmented
type Parser interface {
	Parse(context.Context, *bytes.Reader, io.Writer) error
}
