package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"sync"

	"go.uber.org/atomic"
)

var ErrReading = errors.New("document is reading")

type ReadStatus = int32

const (
	Unread ReadStatus = iota
	Reading
	ReadCompleted
)

// Http loads a document over http once and keeps it for later loads
type Http struct {
	status *atomic.Int32
	mu     sync.Mutex
	doc    *Document
	HttpConfig
}

var _ Loader = (*Http)(nil)

type HttpConfig struct {
	client *http.Client
	link   string
	method string
}

type HttpOption func(*HttpConfig)

func WithHttpMethod(method string) HttpOption {
	return func(h *HttpConfig) {
		h.method = method
	}
}

func WithHttpURL(link string) HttpOption {
	return func(h *HttpConfig) {
		h.link = link
	}
}

func WithHttpClient(client *http.Client) HttpOption {
	return func(h *HttpConfig) {
		h.client = client
	}
}

func NewHttp(opts ...HttpOption) *Http {
	var cfg HttpConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.method == "" {
		cfg.method = http.MethodGet
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}
	return &Http{
		status:     atomic.NewInt32(Unread),
		HttpConfig: cfg,
	}
}

func (h *Http) ReadStatus() ReadStatus {
	return h.status.Load()
}

func (h *Http) Load(ctx context.Context) (*Document, error) {
	if !h.status.CompareAndSwap(Unread, Reading) {
		if h.ReadStatus() == Reading {
			return nil, ErrReading
		}
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.doc, nil
	}
	doc, err := h.fetch(ctx)
	if err != nil {
		h.status.Store(Unread)
		return nil, err
	}
	h.mu.Lock()
	h.doc = doc
	h.mu.Unlock()
	h.status.Store(ReadCompleted)
	return doc, nil
}

func (h *Http) fetch(ctx context.Context) (*Document, error) {
	httpReq, err := http.NewRequestWithContext(ctx, h.method, h.link, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from %s: %d", h.link, httpResp.StatusCode)
	}
	bs, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	var name string
	if u, err := url.Parse(h.link); err == nil {
		name = path.Base(u.Path)
	}
	doc := New(bs, name)
	if mediaType, _, err := mime.ParseMediaType(httpResp.Header.Get("Content-Type")); err == nil {
		switch mediaType {
		case "text/html":
			doc.Kind = HTMLKind
		case "text/markdown":
			doc.Kind = MarkdownKind
		}
	}
	doc.Meta["url"] = h.link
	doc.Meta["method"] = h.method
	return doc, nil
}
