// Package format holds presentation helpers for the ticketrouter CLI:
// best-effort JSON pretty-printing and styled section output.
package format

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PrettyJSON re-serialises valid JSON with 2-space indentation. Non-JSON
// input is returned unchanged, so slightly malformed model output never
// breaks display. Pretty-printing its own output is a no-op.
func PrettyJSON(text string) string {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return text
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return text
	}

	return string(out)
}

// Header renders a ticket banner line.
func Header(title string) string {
	rule := ruleStyle.Render(strings.Repeat("#", 60))
	return rule + "\n" + headerStyle.Render("  "+title) + "\n" + rule
}

// Section renders a labelled section with pretty-printed content.
func Section(title, content string) string {
	rule := ruleStyle.Render(strings.Repeat("=", 60))
	return rule + "\n" + sectionStyle.Render("  "+title) + "\n" + rule + "\n" + PrettyJSON(content)
}

// Truncate returns s shortened to at most n runes, with "..." appended if
// truncated. Newlines are replaced with spaces for single-line display.
func Truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
