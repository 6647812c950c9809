// Package streams provides IOStreams adapters for ilo load notifications. It
// offers ready-to-use implementations that write to stdout/stderr, discard
// output, capture output in memory buffers, or forward messages to a
// structured slog.Logger.
package streams

import (
	"bytes"
	"io"
	"log/slog"
	"os"
)

// IOStreams is the minimal contract for user-facing messages emitted while
// loading a config. Any type with these two methods can be passed to
// ilo.WithStreams, interfaces being satisfied implicitly.
type IOStreams interface {
	Out() io.Writer
	ErrOut() io.Writer
}

// Basic is a simple IOStreams implementation forwarding writes to the
// supplied targets. Use the helpers Default, Writers, Discard, and Slog to
// construct values quickly.
type Basic struct {
	out    io.Writer
	errOut io.Writer
}

func (s Basic) Out() io.Writer    { return s.out }
func (s Basic) ErrOut() io.Writer { return s.errOut }

// Default returns a Basic backed by os.Stdout and os.Stderr.
func Default() Basic {
	return Basic{out: os.Stdout, errOut: os.Stderr}
}

// Writers returns a Basic that writes Out to `out` and ErrOut to `err`.
func Writers(out, err io.Writer) Basic {
	return Basic{out: out, errOut: err}
}

// Discard returns a Basic that drops all output (useful for "--silent").
func Discard() Basic {
	return Writers(io.Discard, io.Discard)
}

// BuffersStreams captures output into bytes.Buffers, for inspecting the
// messages a load produced after the fact. It is not safe for concurrent
// writers, matching the single-threaded contract of the config handle.
type BuffersStreams struct {
	OutBuf *bytes.Buffer
	ErrBuf *bytes.Buffer
}

// Buffers creates a BuffersStreams with fresh buffers for Out and ErrOut.
func Buffers() *BuffersStreams {
	return &BuffersStreams{
		OutBuf: &bytes.Buffer{},
		ErrBuf: &bytes.Buffer{},
	}
}

func (b *BuffersStreams) Out() io.Writer    { return b.OutBuf }
func (b *BuffersStreams) ErrOut() io.Writer { return b.ErrBuf }

// Strings returns the current contents of the Out and ErrOut buffers.
func (b *BuffersStreams) Strings() (out, err string) {
	return b.OutBuf.String(), b.ErrBuf.String()
}

// Reset clears both buffers.
func (b *BuffersStreams) Reset() {
	b.OutBuf.Reset()
	b.ErrBuf.Reset()
}

// slogWriter adapts a slog.Logger to io.Writer, logging each Write as one
// record with the trailing newline trimmed.
type slogWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w slogWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	w.l.Log(nil, w.level, string(p))
	return n, nil
}

// Slog returns a Basic that writes load notifications to a slog.Logger:
// Out messages at level `info`, ErrOut messages at level `err`.
func Slog(l *slog.Logger, info, err slog.Level) Basic {
	return Basic{
		out:    slogWriter{l: l, level: info},
		errOut: slogWriter{l: l, level: err},
	}
}
