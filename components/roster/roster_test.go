package roster

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	return encryptedWorkbook(t, "", rows...)
}

// encryptedWorkbook writes rows to Sheet1, protected by password when set
func encryptedWorkbook(t *testing.T, password string, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf := new(bytes.Buffer)
	if err := f.Write(buf, excelize.Options{Password: password}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	content := workbook(t,
		[]any{"Name", "Phone", "Message"},
		[]any{"Russ", "+1 (415) 555-0100", ""},
		[]any{"Ana", "+14155550101", "Hola {name}."},
		[]any{"Nobody", "", "skipped"},
	)
	entries, err := Load(context.Background(), content)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("invalid entries, want 2, got %d", len(entries))
	}
	if entries[0].Recipient != "+14155550100" {
		t.Errorf("invalid recipient, got %q", entries[0].Recipient)
	}
	tests := []struct {
		entry Entry
		want  string
	}{
		{entry: entries[0], want: "Hi Russ, see you."},
		{entry: entries[1], want: "Hola Ana."},
	}
	for _, tt := range tests {
		if got := tt.entry.Render("Hi {name}, see you."); got != tt.want {
			t.Errorf("invalid body, want %q, got %q", tt.want, got)
		}
	}

	msgs := Messages(entries, "Hi {name}, see you.")
	if len(msgs) != 2 || msgs[1].Body != "Hola Ana." || msgs[0].ID == "" {
		t.Errorf("invalid messages %+v", msgs)
	}
}

func TestLoadNoRecipientColumn(t *testing.T) {
	content := workbook(t, []any{"name", "body"}, []any{"Russ", "Hi"})
	if _, err := Load(context.Background(), content); !errors.Is(err, ErrNoRecipientColumn) {
		t.Errorf("expecting ErrNoRecipientColumn, got %v", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load(context.Background(), []byte("not a workbook")); err == nil {
		t.Error("expecting error")
	}
	content := workbook(t, []any{"recipient"})
	if _, err := Load(context.Background(), content, WithSheet("Missing")); err == nil {
		t.Error("expecting error for a missing sheet")
	}
}

func TestLoadWithPassword(t *testing.T) {
	content := encryptedWorkbook(t, "s3cret",
		[]any{"phone", "name"},
		[]any{"+14155550100", "Russ"},
	)
	if _, err := Load(context.Background(), content); err == nil {
		t.Error("expecting error without the password")
	}
	if _, err := Load(context.Background(), content, WithPassword("wrong")); err == nil {
		t.Error("expecting error with a wrong password")
	}
	entries, err := Load(context.Background(), content, WithPassword("s3cret"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Recipient != "+14155550100" || entries[0].Vars["name"] != "Russ" {
		t.Errorf("invalid entries %+v", entries)
	}
}
