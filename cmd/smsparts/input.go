package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bububa/atomic-sms/components/document"
	"github.com/bububa/atomic-sms/components/document/parsers"
	"github.com/bububa/atomic-sms/components/notification"
	"github.com/bububa/atomic-sms/components/roster"
	"github.com/bububa/atomic-sms/components/segmenter"
	"github.com/bububa/atomic-sms/config"
	"github.com/bububa/atomic-sms/tools/segment"
)

// segmentFlags are the segmentation flags shared by split and send. Unset
// flags fall back to the config file.
type segmentFlags struct {
	file     string
	content  string
	limit    int
	splitter string
	counter  string
	auto     bool
	password string
}

// register adds the segmentation flags and, with input, the message source
// flags
func (f *segmentFlags) register(cmd *cobra.Command, input bool) {
	if input {
		cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the message from a file, http(s) URL or s3://bucket/key")
		cmd.Flags().StringVar(&f.content, "content", "", "Message markup: auto, html, markdown, text, pdf or docx")
		cmd.Flags().StringVar(&f.password, "password", "", "Password of an encrypted pdf message or xlsx recipient list")
	}
	cmd.Flags().IntVarP(&f.limit, "limit", "l", 0, "Maximum part length")
	cmd.Flags().StringVarP(&f.splitter, "splitter", "s", "", "Unit splitter: sentences, words, phrases, graphemes or punctuation")
	cmd.Flags().StringVar(&f.counter, "counter", "", "Length measure: runes, bytes, utf16, graphemes, gsm7 or tiktoken:<encoding>")
	cmd.Flags().BoolVar(&f.auto, "auto", false, "Pick GSM-7 or UCS-2 limits from the text")
}

// merge overlays the flags set on the command line onto cfg
func (f *segmentFlags) merge(cmd *cobra.Command, cfg *config.Config) config.Config {
	ret := *cfg
	flags := cmd.Flags()
	if flags.Changed("content") {
		ret.Content = f.content
	}
	if flags.Changed("password") {
		ret.Password = f.password
	}
	if flags.Changed("limit") {
		ret.Limit = f.limit
	}
	if flags.Changed("splitter") {
		ret.Splitter = f.splitter
	}
	if flags.Changed("counter") {
		ret.Counter = f.counter
	}
	if flags.Changed("auto") {
		ret.Auto = f.auto
	}
	// an auto encoded message takes its limit from the text unless one was asked for
	if ret.Auto && !flags.Changed("limit") {
		ret.Limit = 0
	}
	return ret
}

// readBody returns the plain text of the message from --file, the
// arguments or stdin
func (f *segmentFlags) readBody(ctx context.Context, cmd *cobra.Command, args []string, cfg config.Config, logger *zap.Logger) (string, error) {
	var doc *document.Document
	switch {
	case f.file != "":
		loaded, err := loadDocument(ctx, f.file, cfg)
		if err != nil {
			return "", err
		}
		doc = loaded
	case len(args) > 0:
		doc = document.New([]byte(strings.Join(args, " ")), "")
	default:
		bs, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		doc = document.New(bs, "")
	}
	switch cfg.Content {
	case "", "auto":
	case document.TextKind, document.HTMLKind, document.MarkdownKind, document.PDFKind, document.DocxKind:
		doc.Kind = cfg.Content
	default:
		return "", fmt.Errorf("unknown content kind %q", cfg.Content)
	}
	logger.Debug("message loaded", zap.String("kind", doc.Kind), zap.String("mime", doc.Meta["mime"]), zap.Int("bytes", len(doc.Content)))
	var opts []parsers.Option
	if cfg.Password != "" {
		opts = append(opts, parsers.WithPassword(cfg.Password))
	}
	return parsers.ToText(ctx, doc, opts...)
}

// loadDocument loads uri; an S3 client is only set up for s3:// URIs
func loadDocument(ctx context.Context, uri string, cfg config.Config) (*document.Document, error) {
	var client *s3.Client
	if strings.HasPrefix(uri, "s3://") {
		c, err := cfg.S3.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		client = c
	}
	doc, err := document.NewLoader(uri, client).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", uri, err)
	}
	return doc, nil
}

func loadRoster(ctx context.Context, uri string, cfg config.Config) ([]roster.Entry, error) {
	doc, err := loadDocument(ctx, uri, cfg)
	if err != nil {
		return nil, err
	}
	var opts []roster.Option
	if cfg.Password != "" {
		opts = append(opts, roster.WithPassword(cfg.Password))
	}
	return roster.Load(ctx, doc.Content, opts...)
}

func newSegmenter(text string, cfg config.Config) (*segmenter.Segmenter, error) {
	s, _, err := segment.NewSegmenter(text, cfg.Limit, cfg.Splitter, cfg.Counter, cfg.Auto)
	return s, err
}

// newDispatcher sends through the log transport. With auto encoding every
// message is segmented with the limits of its own encoding.
func newDispatcher(cfg config.Config, logger *zap.Logger, opts ...notification.Option) (*notification.Dispatcher, error) {
	s, err := newSegmenter("", cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Auto {
		opts = append(opts, notification.WithSegmenterFunc(segment.NewSegmenterFunc(cfg.Limit, cfg.Splitter, cfg.Counter, cfg.Auto)))
	}
	opts = append([]notification.Option{
		notification.WithSegmenter(s),
		notification.WithInterval(cfg.Dispatch.Interval),
		notification.WithConcurrency(cfg.Dispatch.Concurrency),
		notification.WithPartRetry(cfg.Dispatch.Retries),
		notification.WithLogger(logger),
	}, opts...)
	return notification.New(notification.NewLogTransport(logger), opts...)
}
