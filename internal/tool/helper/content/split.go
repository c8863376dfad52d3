package content

import "strings"

// SplitLines splits s on "\n" and "\r\n". A final line ending does not
// produce a trailing empty line. A lone "\r" is kept as content.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
