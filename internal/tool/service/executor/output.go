package executor

import (
	"sync"

	"github.com/Cyclone1070/aiterm/internal/tool/helper/content"
)

// binarySampleSize is how much of the combined output is checked for binary data.
const binarySampleSize = 8000

// Stream names the pipe an output chunk came from.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// OutputLine is one chunk of process output as it was read from its pipe.
type OutputLine struct {
	Stream  Stream `json:"type"`
	Content string `json:"content"`
}

// collector forwards command output with a combined size limit and binary
// content detection. Writes from both pipes are serialized.
type collector struct {
	mu        sync.Mutex
	maxBytes  int
	written   int
	truncated bool
	isBinary  bool

	bytesChecked int
	sampleSize   int

	emit func(OutputLine)
}

func newCollector(maxBytes int, sampleSize int, emit func(OutputLine)) *collector {
	if emit == nil {
		emit = func(OutputLine) {}
	}
	return &collector{
		maxBytes:   maxBytes,
		sampleSize: sampleSize,
		emit:       emit,
	}
}

func (c *collector) writer(stream Stream) *streamWriter {
	return &streamWriter{c: c, stream: stream}
}

func (c *collector) write(stream Stream, p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isBinary {
		return
	}

	if c.bytesChecked < c.sampleSize {
		remainingCheck := c.sampleSize - c.bytesChecked
		toCheck := p
		if len(toCheck) > remainingCheck {
			toCheck = toCheck[:remainingCheck]
		}

		if content.IsBinaryContent(toCheck) {
			c.isBinary = true
			c.truncated = true
			c.emit(OutputLine{Stream: stream, Content: "[binary content]"})
			return
		}
		c.bytesChecked += len(toCheck)
	}

	remainingSpace := c.maxBytes - c.written
	if remainingSpace <= 0 {
		c.truncated = true
		return
	}

	toWrite := p
	if len(toWrite) > remainingSpace {
		toWrite = toWrite[:remainingSpace]
		c.truncated = true
	}

	c.written += len(toWrite)
	c.emit(OutputLine{Stream: stream, Content: string(toWrite)})
}

func (c *collector) Truncated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.truncated
}

type streamWriter struct {
	c      *collector
	stream Stream
}

func (w *streamWriter) Write(p []byte) (int, error) {
	w.c.write(w.stream, p)
	return len(p), nil
}
