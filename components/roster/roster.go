// Package roster reads bulk recipient lists from spreadsheets. The first row
// of the sheet names the columns: a recipient column is required, a body
// column is optional and every other column is a variable the message body
// can reference as {column}.
package roster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bububa/atomic-sms/components/notification"
)

// ErrNoRecipientColumn is returned for a sheet without a recipient column
var ErrNoRecipientColumn = errors.New("roster: no recipient column")

var (
	recipientColumns = []string{"recipient", "phone", "to", "mobile"}
	bodyColumns      = []string{"body", "message", "text"}
)

// Entry is one row of a recipient list
type Entry struct {
	Recipient string
	// Body overrides the shared message body when set
	Body string
	Vars map[string]string
}

// Render returns the body of the entry: its own body or tmpl, with every
// {column} placeholder replaced by the row value
func (e Entry) Render(tmpl string) string {
	body := tmpl
	if e.Body != "" {
		body = e.Body
	}
	if len(e.Vars) == 0 {
		return body
	}
	pairs := make([]string, 0, len(e.Vars)*2)
	for k, v := range e.Vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

type Options struct {
	sheet    string
	password string
}

type Option func(*Options)

// WithSheet reads the named sheet instead of the first one
func WithSheet(sheet string) Option {
	return func(o *Options) {
		o.sheet = sheet
	}
}

func WithPassword(password string) Option {
	return func(o *Options) {
		o.password = password
	}
}

// Load reads the entries of an xlsx workbook. Rows without a recipient are
// skipped.
func Load(ctx context.Context, content []byte, opts ...Option) ([]Entry, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	xlsxOpts := make([]excelize.Options, 0, 1)
	if o.password != "" {
		xlsxOpts = append(xlsxOpts, excelize.Options{Password: o.password})
	}
	f, err := excelize.OpenReader(bytes.NewReader(content), xlsxOpts...)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheet := o.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("roster: workbook has no sheet")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRecipientColumn
	}
	header := make([]string, len(rows[0]))
	recipientIdx, bodyIdx := -1, -1
	for idx, v := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(v))
		header[idx] = name
		switch {
		case recipientIdx < 0 && contains(recipientColumns, name):
			recipientIdx = idx
		case bodyIdx < 0 && contains(bodyColumns, name):
			bodyIdx = idx
		}
	}
	if recipientIdx < 0 {
		return nil, ErrNoRecipientColumn
	}
	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if recipientIdx >= len(row) || strings.TrimSpace(row[recipientIdx]) == "" {
			continue
		}
		entry := Entry{
			Recipient: normalizePhone(row[recipientIdx]),
			Vars:      make(map[string]string, len(row)),
		}
		for idx, v := range row {
			switch {
			case idx == recipientIdx:
			case idx == bodyIdx:
				entry.Body = strings.TrimSpace(v)
			case header[idx] != "":
				entry.Vars[header[idx]] = strings.TrimSpace(v)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Messages renders one message per entry with tmpl as the shared body
func Messages(entries []Entry, tmpl string) []notification.Message {
	ret := make([]notification.Message, 0, len(entries))
	for _, entry := range entries {
		ret = append(ret, notification.Message{
			ID:        notification.NewMessageID(),
			Recipient: entry.Recipient,
			Body:      entry.Render(tmpl),
		})
	}
	return ret
}

// normalizePhone drops the separators spreadsheets commonly keep in phone
// numbers
func normalizePhone(v string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(v))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
