package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/tuskcmd/pkg/subcmd"
)

type fakeRouter struct {
	lines []string
	reply string
}

func (f *fakeRouter) Root() string { return "tusk" }

func (f *fakeRouter) Execute(ctx context.Context, s subcmd.Sender, line string) (bool, bool) {
	f.lines = append(f.lines, line)
	if !strings.HasPrefix(line, "/tusk") {
		return false, false
	}
	if f.reply != "" {
		s.SendMessage(f.reply)
	}
	return f.reply != "", true
}

func TestCommandLine(t *testing.T) {
	assert.Equal(t, "/tusk ping", CommandLine("tusk", "ping"))
	assert.Equal(t, "/tusk ", CommandLine("tusk", ""))
	assert.Equal(t, "/tusk motd hi", CommandLine("tusk", "  /tusk motd hi "))
	assert.Equal(t, "/other", CommandLine("tusk", "/other"))
}

func TestConsole(t *testing.T) {
	c := NewConsole(&bytes.Buffer{})

	assert.Equal(t, "console", c.Name())
	assert.True(t, c.HasPermission("tusk.anything"))
	assert.False(t, c.Interactive())
	assert.Equal(t, []string{"console"}, c.Subjects())
}

func TestConsole_SendMessageWritesEveryLine(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out)

	c.SendMessage("pong", "**Version**  ›  `0.1.0`")

	rows := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "pong")
	assert.Contains(t, rows[1], "Version")
	assert.Contains(t, rows[1], "0.1.0")
	assert.NotContains(t, out.String(), "**")
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("prefixes bare lines", func(t *testing.T) {
		var out bytes.Buffer
		r := &fakeRouter{reply: "pong"}
		assert.True(t, Execute(ctx, r, NewConsole(&out), "ping"))
		assert.Equal(t, []string{"/tusk ping"}, r.lines)
		assert.Contains(t, out.String(), "pong")
	})

	t.Run("unhandled", func(t *testing.T) {
		r := &fakeRouter{}
		assert.False(t, Execute(ctx, r, NewConsole(&bytes.Buffer{}), "dance"))
	})

	t.Run("foreign command", func(t *testing.T) {
		var out bytes.Buffer
		r := &fakeRouter{reply: "pong"}
		assert.False(t, Execute(ctx, r, NewConsole(&out), "/other ping"))
		assert.Contains(t, out.String(), "/tusk")
	})
}
