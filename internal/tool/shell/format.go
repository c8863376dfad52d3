package shell

import (
	"strings"

	"github.com/Cyclone1070/aiterm/internal/tool/service/executor"
	"github.com/charmbracelet/lipgloss"
)

var (
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	stdoutStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	stderrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// formatCommand prefixes every line of command with "> ".
func formatCommand(command string) string {
	lines := strings.Split(command, "\n")
	for i, line := range lines {
		lines[i] = "> " + commandStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}

// formatOutput renders output chunks with trailing blank output removed.
func formatOutput(output []executor.OutputLine) string {
	lines := trimTrailing(output)

	var b strings.Builder
	for _, line := range lines {
		if line.Stream == executor.Stderr {
			b.WriteString(stderrStyle.Render(line.Content))
		} else {
			b.WriteString(stdoutStyle.Render(line.Content))
		}
	}
	return b.String()
}

// trimTrailing drops trailing whitespace-only chunks and right-trims the
// last remaining one. The input is not modified.
func trimTrailing(output []executor.OutputLine) []executor.OutputLine {
	lines := make([]executor.OutputLine, len(output))
	copy(lines, output)

	for len(lines) > 0 {
		last := &lines[len(lines)-1]
		last.Content = strings.TrimRight(last.Content, " \t\r\n")
		if last.Content != "" {
			break
		}
		lines = lines[:len(lines)-1]
	}
	return lines
}

func withOutput(header string, output []executor.OutputLine) string {
	body := formatOutput(output)
	if body == "" {
		return header
	}
	return header + "\n\n" + body
}

func info(msg string) string {
	return dimStyle.Render("ℹ") + " " + msg
}
