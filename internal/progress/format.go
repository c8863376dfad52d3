package progress

import "github.com/charmbracelet/lipgloss"

var (
	successMark = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓")
	failureMark = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("✗")
)

// PrefixFormatter marks terminal lines of f with a check or a cross.
// Progress lines are left alone; the renderer prefixes them with a spinner.
func PrefixFormatter[T, S any](f Formatters[T, S]) Formatters[T, S] {
	return Formatters[T, S]{
		Progress: f.progress,
		Success: func(v T) string {
			return successMark + " " + f.success(v)
		},
		Failure: func(s S, msg string) string {
			return failureMark + " " + f.failure(s, msg)
		},
	}
}
