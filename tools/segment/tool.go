package segment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bububa/atomic-sms/components/gsm"
	"github.com/bububa/atomic-sms/components/segmenter"
	"github.com/bububa/atomic-sms/components/segmenter/splitter"
	"github.com/bububa/atomic-sms/schema"
	"github.com/bububa/atomic-sms/tools"
)

// Input Tool for splitting a text message into SMS sized parts. Parts break
// on sentence boundaries where possible.
type Input struct {
	schema.Base
	// Text is the message to split
	Text string `json:"text"`
	// Limit is the maximum length of a part; 0 selects the default
	Limit int `json:"limit,omitempty"`
	// Splitter names the unit splitter
	Splitter string `json:"splitter,omitempty" validate:"omitempty,oneof=sentences words phrases graphemes punctuation"`
	// Counter names the length measure
	Counter string `json:"counter,omitempty"`
	// Auto derives limit and counter from the SMS encoding the text needs
	Auto bool `json:"auto,omitempty"`
}

func NewInput(text string, limit int) *Input {
	return &Input{
		Text:  text,
		Limit: limit,
	}
}

// Output Schema for the output of the segment tool
type Output struct {
	schema.Base `yaml:",inline"`
	// Parts are the message parts in delivery order
	Parts []string `json:"parts" yaml:"parts"`
	// Count is the number of parts
	Count int `json:"count" yaml:"count"`
	// Limit is the limit the parts were built with
	Limit int `json:"limit" yaml:"limit"`
	// Encoding is the SMS coding the text needs
	Encoding gsm.Encoding `json:"encoding" yaml:"encoding"`
}

func NewOutput(parts []string, limit int, enc gsm.Encoding) *Output {
	return &Output{
		Parts:    parts,
		Count:    len(parts),
		Limit:    limit,
		Encoding: enc,
	}
}

type Tool struct {
	tools.Config
	validate *validator.Validate
}

var (
	_ tools.Tool[Input, Output] = (*Tool)(nil)
	_ tools.AnonymousTool       = (*Tool)(nil)
)

func New(opts ...tools.Option) *Tool {
	ret := &Tool{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("SegmentTool")
	}
	if ret.Description() == "" {
		ret.SetDescription("Splits a text message into ordered SMS parts no longer than a limit.")
	}
	return ret
}

// Run executes the segment tool with the given parameters.
func (t *Tool) Run(ctx context.Context, input *Input) (*Output, error) {
	t.OnStart(ctx, t, input)
	output, err := t.run(input)
	if err != nil {
		t.OnError(ctx, t, input, err)
		return nil, err
	}
	t.OnEnd(ctx, t, input, output)
	return output, nil
}

func (t *Tool) run(input *Input) (*Output, error) {
	if err := t.validate.Struct(input); err != nil {
		return nil, err
	}
	s, enc, err := NewSegmenter(input.Text, input.Limit, input.Splitter, input.Counter, input.Auto)
	if err != nil {
		return nil, err
	}
	parts, err := s.Split(input.Text)
	if err != nil {
		return nil, err
	}
	return NewOutput(parts, s.Limit(), enc), nil
}

// RunAnonymous accepts an *Input, an Input or its JSON encoding
func (t *Tool) RunAnonymous(ctx context.Context, input any) (any, error) {
	switch v := input.(type) {
	case *Input:
		return t.Run(ctx, v)
	case Input:
		return t.Run(ctx, &v)
	case string:
		return t.runJSON(ctx, []byte(v))
	case []byte:
		return t.runJSON(ctx, v)
	}
	return nil, fmt.Errorf("invalid input type %T", input)
}

func (t *Tool) runJSON(ctx context.Context, bs []byte) (any, error) {
	in := new(Input)
	if err := json.Unmarshal(bs, in); err != nil {
		return nil, err
	}
	return t.Run(ctx, in)
}

// NewSegmenter builds the segmenter for text from the named splitter and
// counter. With auto, the limit and the counter follow the SMS encoding the
// text needs; an explicit limit still wins. A zero limit selects the default.
func NewSegmenter(text string, limit int, splitterName string, counterName string, auto bool) (*segmenter.Segmenter, gsm.Encoding, error) {
	enc := gsm.Detect(text)
	unitSplitter, err := splitter.ByName(splitterName)
	if err != nil {
		return nil, enc, err
	}
	opts := []segmenter.Option{segmenter.WithUnitSplitter(unitSplitter)}
	if auto {
		opts = append(opts, segmenter.WithCounter(segmenter.CounterForEncoding(enc)))
		if limit == 0 {
			limit = gsm.LimitFor(text)
		}
	} else {
		counter, err := segmenter.CounterByName(counterName)
		if err != nil {
			return nil, enc, err
		}
		opts = append(opts, segmenter.WithCounter(counter))
	}
	if limit != 0 {
		opts = append(opts, segmenter.WithLimit(limit))
	}
	s, err := segmenter.New(opts...)
	return s, enc, err
}

// NewSegmenterFunc returns a function building the segmenter of each message
// body, so that with auto every message gets the limit of its own encoding.
func NewSegmenterFunc(limit int, splitterName string, counterName string, auto bool) func(body string) (*segmenter.Segmenter, error) {
	return func(body string) (*segmenter.Segmenter, error) {
		s, _, err := NewSegmenter(body, limit, splitterName, counterName, auto)
		return s, err
	}
}
