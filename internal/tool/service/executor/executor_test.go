package executor

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Cyclone1070/aiterm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.ShellConfig {
	return config.ShellConfig{
		Shell:                "sh",
		MaxCommandOutputSize: 1024,
		TimeoutSeconds:       30,
	}
}

type lines struct {
	mu  sync.Mutex
	out []OutputLine
}

func (l *lines) add(line OutputLine) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = append(l.out, line)
}

func (l *lines) text(stream Stream) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var b strings.Builder
	for _, line := range l.out {
		if line.Stream == stream {
			b.WriteString(line.Content)
		}
	}
	return b.String()
}

func TestProcess_CollectsBothStreams(t *testing.T) {
	e := NewOSCommandExecutor(testConfig(), nil)
	p, err := e.Start("echo out; echo err >&2", t.TempDir())
	require.NoError(t, err)

	var got lines
	res, err := p.Wait(got.add)

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", got.text(Stdout))
	assert.Equal(t, "err\n", got.text(Stderr))
}

func TestProcess_NonZeroExit(t *testing.T) {
	e := NewOSCommandExecutor(testConfig(), nil)
	p, err := e.Start("echo partial; exit 3", t.TempDir())
	require.NoError(t, err)

	var got lines
	res, err := p.Wait(got.add)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "exit code 3", err.Error())
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "partial\n", got.text(Stdout))
}

func TestProcess_KillStopsWholeGroup(t *testing.T) {
	e := NewOSCommandExecutor(testConfig(), nil)
	// The child sleep keeps the pipes open unless the whole group dies.
	p, err := e.Start("echo started; sleep 30 & sleep 30", t.TempDir())
	require.NoError(t, err)

	var got lines
	done := make(chan struct{})
	var res *Result
	var waitErr error
	go func() {
		res, waitErr = p.Wait(got.add)
		close(done)
	}()

	assert.Eventually(t, func() bool { return got.text(Stdout) == "started\n" }, 5*time.Second, 10*time.Millisecond)
	p.Kill()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process group was not killed")
	}
	var exitErr *ExitError
	require.ErrorAs(t, waitErr, &exitErr)
	assert.Equal(t, 137, res.ExitCode)
}

func TestProcess_Timeout(t *testing.T) {
	cfg := testConfig()
	cfg.TimeoutSeconds = 1
	e := NewOSCommandExecutor(cfg, nil)
	p, err := e.Start("sleep 30", t.TempDir())
	require.NoError(t, err)

	_, err = p.Wait(nil)

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestProcess_StartFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Shell = "/definitely/not/a/shell"
	e := NewOSCommandExecutor(cfg, nil)

	_, err := e.Start("true", t.TempDir())

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "start", cmdErr.Stage)
}

func TestCollector(t *testing.T) {
	t.Run("Caps combined output", func(t *testing.T) {
		var got lines
		c := newCollector(5, binarySampleSize, got.add)

		_, _ = c.writer(Stdout).Write([]byte("abc"))
		_, _ = c.writer(Stderr).Write([]byte("defgh"))
		_, _ = c.writer(Stdout).Write([]byte("ignored"))

		assert.Equal(t, "abc", got.text(Stdout))
		assert.Equal(t, "de", got.text(Stderr))
		assert.True(t, c.Truncated())
	})

	t.Run("Binary output is replaced", func(t *testing.T) {
		var got lines
		c := newCollector(100, binarySampleSize, got.add)

		_, _ = c.writer(Stdout).Write([]byte{'a', 0, 'b'})
		_, _ = c.writer(Stdout).Write([]byte("more"))

		assert.Equal(t, "[binary content]", got.text(Stdout))
		assert.True(t, c.Truncated())
	})

	t.Run("Nil emit is allowed", func(t *testing.T) {
		c := newCollector(10, binarySampleSize, nil)
		n, err := c.writer(Stdout).Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})
}
