package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type summaryItem struct {
	Summary string `json:"summary" yaml:"summary"`
	Count   int    `json:"count" yaml:"count"`
}

func (s summaryItem) Text() string {
	return s.Summary
}

type stringerItem struct{ name string }

func (s stringerItem) String() string { return "stringer:" + s.name }

func TestNewWriter(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "*output.TextWriter"},
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if got := typeName(w); got != tt.want {
				t.Errorf("NewWriter(%s) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func typeName(w Writer) string {
	switch w.(type) {
	case *TextWriter:
		return "*output.TextWriter"
	case *JSONWriter:
		return "*output.JSONWriter"
	case *JSONLWriter:
		return "*output.JSONLWriter"
	case *YAMLWriter:
		return "*output.YAMLWriter"
	}
	return "unknown"
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"jsonl", FormatJSONL, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf)

	items := []any{
		summaryItem{Summary: "**Summary:**\n\nFirst."},
		stringerItem{name: "x"},
		"plain",
		42,
	}
	if err := w.WriteAll(items); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := "**Summary:**\n\nFirst.\n\nstringer:x\n\nplain\n\n42\n"
	if buf.String() != want {
		t.Errorf("text output = %q, want %q", buf.String(), want)
	}
}

func TestJSONWriter_SingleItemIsObject(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	if err := w.Write(summaryItem{Summary: "a <b> & c", Count: 2}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var got summaryItem
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if got.Summary != "a <b> & c" || got.Count != 2 {
		t.Errorf("unexpected result: %+v", got)
	}
	if !strings.Contains(buf.String(), "<b>") {
		t.Errorf("expected HTML characters unescaped, got %s", buf.String())
	}
	if strings.Count(buf.String(), "summary") != 1 {
		t.Errorf("Close after Flush should not write twice, got %s", buf.String())
	}
}

func TestJSONWriter_MultipleItemsAreArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	if err := w.WriteAll([]any{summaryItem{Count: 1}, summaryItem{Count: 2}}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got []summaryItem
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(got) != 2 || got[1].Count != 2 {
		t.Errorf("unexpected result: %+v", got)
	}
	if strings.Contains(buf.String(), "\n  ") {
		t.Errorf("compact output should not be indented: %s", buf.String())
	}
}

func TestJSONWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestJSONLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	if err := w.WriteAll([]any{summaryItem{Count: 1}, summaryItem{Count: 2}}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	for i, line := range lines {
		var got summaryItem
		if err := json.Unmarshal([]byte(line), &got); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if got.Count != i+1 {
			t.Errorf("line %d count = %d, want %d", i, got.Count, i+1)
		}
	}
}

func TestYAMLWriter(t *testing.T) {
	tests := []struct {
		name  string
		items []any
		check func(t *testing.T, out []byte)
	}{
		{
			name:  "single item",
			items: []any{summaryItem{Summary: "one", Count: 1}},
			check: func(t *testing.T, out []byte) {
				var got summaryItem
				if err := yaml.Unmarshal(out, &got); err != nil {
					t.Fatalf("failed to unmarshal output: %v", err)
				}
				if got.Summary != "one" || got.Count != 1 {
					t.Errorf("unexpected result: %+v", got)
				}
			},
		},
		{
			name:  "multiple items",
			items: []any{summaryItem{Count: 1}, summaryItem{Count: 2}},
			check: func(t *testing.T, out []byte) {
				var got []summaryItem
				if err := yaml.Unmarshal(out, &got); err != nil {
					t.Fatalf("failed to unmarshal output: %v", err)
				}
				if len(got) != 2 {
					t.Errorf("expected 2 items, got %+v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			w := NewYAMLWriter(buf)
			if err := w.WriteAll(tt.items); err != nil {
				t.Fatalf("WriteAll() error = %v", err)
			}
			if err := w.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			tt.check(t, buf.Bytes())
		})
	}
}

func TestWriterOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, FormatJSON, WithPretty(true), WithIndent("\t"))
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.Write(summaryItem{Summary: "x"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\t\"summary\"") {
		t.Errorf("expected tab indentation, got %q", buf.String())
	}
}
