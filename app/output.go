package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v2"
)

// Format is an output format for listings.
type Format string

// Supported listing formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. An empty name selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", NewUsageError(fmt.Errorf("unknown output format %q: use text, json or yaml", s))
	}
}

// EndpointRow is one line of an endpoint listing.
type EndpointRow struct {
	Name   string `json:"name" yaml:"name"`
	Image  string `json:"image" yaml:"image"`
	URL    string `json:"url" yaml:"url"`
	Status string `json:"status" yaml:"status"`
}

// Output writes user facing messages. Styling is only applied when the
// writer is a terminal.
type Output struct {
	w    io.Writer
	ok   lipgloss.Style
	warn lipgloss.Style
}

// NewOutput creates an Output writing to w.
func NewOutput(w io.Writer) *Output {
	r := lipgloss.NewRenderer(w)
	return &Output{
		w:    w,
		ok:   r.NewStyle().Foreground(lipgloss.Color("42")),  // green
		warn: r.NewStyle().Foreground(lipgloss.Color("214")), // orange
	}
}

// Println writes an unstyled line.
func (o *Output) Println(msg string) {
	fmt.Fprintln(o.w, msg)
}

// Success writes a success line.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.w, o.ok.Render(msg))
}

// Warn writes a warning line.
func (o *Output) Warn(msg string) {
	fmt.Fprintln(o.w, o.warn.Render(msg))
}

// Endpoints writes a listing in the given format.
func (o *Output) Endpoints(format Format, rows []EndpointRow) error {
	switch format {
	case FormatJSON:
		if rows == nil {
			rows = []EndpointRow{}
		}
		enc := json.NewEncoder(o.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("json output error: %w", err)
		}
	case FormatYAML:
		b, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("yaml output error: %w", err)
		}
		if _, err := o.w.Write(b); err != nil {
			return fmt.Errorf("yaml output error: %w", err)
		}
	default:
		for _, r := range rows {
			fmt.Fprintf(o.w, "%s/ -> %s\n", r.URL, r.Status)
		}
	}
	return nil
}
