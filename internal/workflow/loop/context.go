package loop

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/aiterm/internal/contextstate"
)

const contextPreamble = "The following files and directories are part of the context. " +
	"Their content is current as of this message and replaces any earlier version you have seen."

// renderContext describes the included files and directories for the
// system instruction. It returns "" when nothing is included.
func renderContext(files []contextstate.ContextFile, dirs []contextstate.ContextDirectory, visible []string) string {
	var b strings.Builder

	for _, f := range files {
		if !contextstate.ShouldIncludeFile(f, visible) {
			continue
		}
		fmt.Fprintf(&b, "<file path=%q>\n", f.Path)
		body := f.Content.Text
		if f.Content.Err != nil {
			body = f.Content.Err.Message
		}
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("</file>\n\n")
	}

	for _, d := range dirs {
		if !contextstate.ShouldIncludeDirectory(d, visible) {
			continue
		}
		fmt.Fprintf(&b, "<directory path=%q>\n", d.Path)
		if d.Entries.Err != nil {
			b.WriteString(d.Entries.Err.Message + "\n")
		} else {
			for _, e := range d.Entries.Entries {
				name := e.Name
				if e.IsDirectory {
					name += "/"
				}
				b.WriteString(name + "\n")
			}
		}
		b.WriteString("</directory>\n\n")
	}

	if b.Len() == 0 {
		return ""
	}
	return contextPreamble + "\n\n" + strings.TrimRight(b.String(), "\n")
}
