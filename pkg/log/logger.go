package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// NewContextWithLogger installs the process logger and returns a context
// carrying it, plus a flush func for the async writer.
func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	return NewContextWithWriter(ctx, os.Stdout, debug)
}

// switchWriter is the destination behind the async writer. Redirect swaps it.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.w
	s.w = w
	return prev
}

var (
	destMu sync.Mutex
	dest   *switchWriter
)

// Redirect sends log output to w until the returned func restores the
// previous destination. The console uses it so log lines do not tear the
// prompt. It is a no-op before a logger is installed.
func Redirect(w io.Writer) (restore func()) {
	destMu.Lock()
	out := dest
	destMu.Unlock()
	if out == nil {
		return func() {}
	}

	prev := out.swap(w)
	return func() { out.swap(prev) }
}

// NewContextWithWriter is NewContextWithLogger with an explicit destination.
func NewContextWithWriter(ctx context.Context, out io.Writer, debug bool) (context.Context, func()) {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return ""
	}

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	sw := &switchWriter{w: out}
	destMu.Lock()
	dest = sw
	destMu.Unlock()

	// Non-blocking ring buffer between callers and the terminal.
	wr := diode.NewWriter(sw, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "Logger Dropped %d messages\n", missed)
	})

	output := zerolog.ConsoleWriter{
		Out:        wr,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		CallerWithSkipFrameCount(2).
		Logger()

	log.Logger = logger

	return log.With().Logger().WithContext(ctx), func() {
		wr.Close()
	}
}

// FromCtx returns the context logger, or a disabled one.
func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
