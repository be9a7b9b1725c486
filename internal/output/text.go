package output

import (
	"bufio"
	"fmt"
	"io"
)

// Texter is implemented by results with a human-readable rendering.
type Texter interface {
	Text() string
}

// TextWriter writes each result's text rendering, separated by blank lines.
// Results that are neither Texter nor fmt.Stringer are printed with %v.
type TextWriter struct {
	w       *bufio.Writer
	written int
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes a single item.
func (w *TextWriter) Write(data any) error {
	if w.written > 0 {
		if _, err := w.w.WriteString("\n"); err != nil {
			return err
		}
	}

	var text string
	switch v := data.(type) {
	case Texter:
		text = v.Text()
	case fmt.Stringer:
		text = v.String()
	case string:
		text = v
	default:
		text = fmt.Sprintf("%v", v)
	}

	if _, err := w.w.WriteString(text); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	w.written++
	return nil
}

// WriteAll writes multiple items.
func (w *TextWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
