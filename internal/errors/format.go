package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

var plain atomic.Bool

// DisableColors turns off ANSI escapes, e.g. when output is not a terminal.
func DisableColors() { plain.Store(true) }

// EnableColors turns ANSI escapes back on.
func EnableColors() { plain.Store(false) }

func color(code, text string) string {
	if plain.Load() {
		return text
	}
	return code + text + colorReset
}

func red(text string) string  { return color(colorRed, text) }
func cyan(text string) string { return color(colorCyan, text) }
func gray(text string) string { return color(colorGray, text) }
func bold(text string) string { return color(colorBold, text) }

// Format renders the error for a terminal.
func (e *SignalError) Format() string {
	var b strings.Builder

	title := "ERROR: "
	if e.Code != "" {
		title = "ERROR " + e.Code + ": "
	}
	fmt.Fprintf(&b, "\n%s%s\n\n", red(bold(title)), e.Message)

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", cyan(e.Location.String()))
		e.writeSource(&b)
	}

	paragraph := func(label, text string) {
		if text != "" {
			fmt.Fprintf(&b, "  %s%s\n\n", label, text)
		}
	}
	if e.Detail != "" {
		b.WriteString("  " + strings.Join(wrapText(e.Detail, 70), "\n  ") + "\n\n")
	}
	if e.Wrapped != nil {
		paragraph(gray("Cause: "), e.Wrapped.Error())
	}
	paragraph(cyan("Hint: "), e.Suggestion)

	return b.String()
}

// writeSource prints the context lines with a marker on the failing one.
func (e *SignalError) writeSource(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}
	first := max(e.Location.Line-2, 1)
	for i, text := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", n, gray(" │ "), text)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", red("→ "), n, gray(" │ "), text)
		if col := e.Location.Column; col > 0 {
			fmt.Fprintf(b, "       %s%s%s\n", gray("│ "), strings.Repeat(" ", col-1), red("^"))
		}
	}
	b.WriteString("\n")
}

// FormatCompact returns a single-line rendering for logs.
func (e *SignalError) FormatCompact() string {
	if e.Location == nil {
		return e.Error()
	}
	return e.Location.String() + ": " + e.Error()
}

type jsonError struct {
	Code       string    `json:"code,omitempty"`
	Category   Category  `json:"category"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	Cause      string    `json:"cause,omitempty"`
}

// MarshalJSON encodes the error for HTTP responses.
func (e *SignalError) MarshalJSON() ([]byte, error) {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	return json.Marshal(out)
}

// wrapText breaks text into lines of at most width bytes, splitting on
// whitespace. A single word longer than width gets its own line.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := []string{words[0]}
	for _, w := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(w) > width {
			lines = append(lines, w)
			continue
		}
		*last += " " + w
	}
	return lines
}

// Fprint writes err to w, formatted if it is a SignalError.
func Fprint(w io.Writer, err error) {
	var se *SignalError
	if stderrors.As(err, &se) {
		fmt.Fprint(w, se.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", red(bold("ERROR:")), err.Error())
}
