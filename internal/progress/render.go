package progress

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Renderer displays the live state of an operation.
type Renderer interface {
	// Update replaces the live region with text.
	Update(text string)
	// Done replaces the live region with text and leaves it in place.
	Done(text string)
}

type discard struct{}

func (discard) Update(string) {}
func (discard) Done(string)   {}

// TerminalRenderer redraws a region of the terminal in place. While an
// operation is in progress the region is prefixed with an animated spinner.
type TerminalRenderer struct {
	out      io.Writer
	width    func() int
	frames   []string
	interval time.Duration

	mu      sync.Mutex
	height  int
	text    string
	frame   int
	stop    chan struct{}
	stopped chan struct{}
}

// NewTerminalRenderer creates a renderer writing to out. width reports the
// terminal width in columns; nil or a non-positive result disables wrapping.
func NewTerminalRenderer(out io.Writer, width func() int) *TerminalRenderer {
	return &TerminalRenderer{
		out:      out,
		width:    width,
		frames:   spinner.MiniDot.Frames,
		interval: spinner.MiniDot.FPS,
	}
}

func (r *TerminalRenderer) Update(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.text = text
	r.draw(r.frames[r.frame%len(r.frames)] + " " + text)

	if r.stop == nil {
		r.stop = make(chan struct{})
		r.stopped = make(chan struct{})
		go r.animate(r.stop, r.stopped)
	}
}

func (r *TerminalRenderer) Done(text string) {
	r.mu.Lock()
	stop, stopped := r.stop, r.stopped
	r.stop, r.stopped = nil, nil
	r.mu.Unlock()

	if stop != nil {
		close(stop)
		<-stopped
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.draw(text)
	r.height = 0
	r.text = ""
	r.frame = 0
}

func (r *TerminalRenderer) animate(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			r.frame++
			r.draw(r.frames[r.frame%len(r.frames)] + " " + r.text)
			r.mu.Unlock()
		}
	}
}

// draw must be called with mu held.
func (r *TerminalRenderer) draw(text string) {
	if r.height > 0 {
		_, _ = io.WriteString(r.out, "\r"+ansi.CursorUp(r.height)+ansi.EraseScreenBelow)
	}
	if text == "" {
		r.height = 0
		return
	}
	// Wrap exactly as the terminal would so the height counts screen rows.
	if r.width != nil {
		if w := r.width(); w > 0 {
			text = ansi.Hardwrap(text, w, true)
		}
	}
	_, _ = io.WriteString(r.out, text+"\n")
	r.height = lipgloss.Height(text)
}
