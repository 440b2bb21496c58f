package render

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
)

// LogBuffer keeps the last few log lines written while tcell owns the screen,
// so they can be printed once the terminal is restored.
type LogBuffer struct {
	mu    sync.Mutex
	lines [][]byte
	next  int
	full  bool
}

// NewLogBuffer creates a buffer holding at most size lines.
func NewLogBuffer(size int) *LogBuffer {
	return &LogBuffer{lines: make([][]byte, size)}
}

// NewLogHandler returns a text handler that writes into lb.
func NewLogHandler(lb *LogBuffer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(lb, &slog.HandlerOptions{Level: level})
}

// Write stores one formatted record. The oldest line is overwritten once the
// buffer is full.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.lines[lb.next] = bytes.Clone(p)
	lb.next = (lb.next + 1) % len(lb.lines)
	if lb.next == 0 {
		lb.full = true
	}
	return len(p), nil
}

// Replay writes every buffered line to w, oldest first.
func (lb *LogBuffer) Replay(w io.Writer) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	start := 0
	if lb.full {
		start = lb.next
	}
	for i := 0; i < len(lb.lines); i++ {
		line := lb.lines[(start+i)%len(lb.lines)]
		if line == nil {
			continue
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
