package chat

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/aiterm/internal/contextstate"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// NewMarkdownRenderer renders assistant text for a terminal of the given width.
func NewMarkdownRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
}

func info(s string) string {
	return dimStyle.Render("ℹ") + " " + s
}

// formatReason describes why an entity is in the context.
func formatReason(r contextstate.InclusionReason) string {
	switch r := r.(type) {
	case contextstate.ExplicitReason:
		return "loaded"
	case contextstate.ToolUseReason:
		return "tool " + r.ToolUseID
	case contextstate.EditorReason:
		if r.CurrentlyOpen {
			return "editor (open)"
		}
		return "editor (closed)"
	default:
		return fmt.Sprintf("%T", r)
	}
}

func formatReasons(reasons []contextstate.InclusionReason) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, formatReason(r))
	}
	return strings.Join(parts, ", ")
}

// formatEntity renders one line of the :context listing.
func formatEntity(kind, path string, reasons []contextstate.InclusionReason, included bool) string {
	mark := dimStyle.Render("-")
	if included {
		mark = okStyle.Render("+")
	}
	return fmt.Sprintf("%s %s %s %s", mark, kind, path, dimStyle.Render("("+formatReasons(reasons)+")"))
}

const helpText = `Commands:
  :load <patterns...>     add matching files to the context
  :loaddir <patterns...>  add matching directories to the context
  :context                list tracked files and directories
  :help                   show this help
  :exit, :quit            end the session
Anything else is sent to the model. Ctrl-C cancels, twice quickly exits.`
