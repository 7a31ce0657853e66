package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

const (
	consoleName = "console"
	wrapWidth   = 100
)

// Console is the operator at the terminal. It holds every permission and is
// not interactive, so player-only commands stay hidden from it.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *glamour.TermRenderer
}

func NewConsole(out io.Writer) *Console {
	// A nil renderer falls back to raw Markdown.
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStyles(consoleStyle()),
		glamour.WithWordWrap(wrapWidth),
	)
	return &Console{out: out, renderer: renderer}
}

func (c *Console) Name() string              { return consoleName }
func (c *Console) HasPermission(string) bool { return true }
func (c *Console) Interactive() bool         { return false }
func (c *Console) Subjects() []string        { return []string{consoleName} }

// SendMessage renders every line as Markdown on its own row.
func (c *Console) SendMessage(lines ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range lines {
		fmt.Fprintln(c.out, c.render(line))
	}
}

func (c *Console) render(line string) string {
	if c.renderer == nil {
		return line
	}
	out, err := c.renderer.Render(line)
	if err != nil {
		return line
	}
	return strings.Trim(out, "\n")
}

// CommandLine lets the operator omit the root command: "ping" becomes
// "/tusk ping". Lines that already start with a slash are left alone.
func CommandLine(root, line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "/") {
		return line
	}
	return "/" + root + " " + line
}

// consoleStyle is a fixed style so rendering never queries the terminal.
func consoleStyle() ansi.StyleConfig {
	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			Margin: uintPtr(0),
		},
		Paragraph: ansi.StyleBlock{
			Margin: uintPtr(0),
		},
		List: ansi.StyleList{
			LevelIndent: 2,
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr("2"),
			},
		},
		Emph: ansi.StylePrimitive{
			Italic: boolPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Bold: boolPtr(true),
		},
		Link: ansi.StylePrimitive{
			Color:     stringPtr("6"),
			Underline: boolPtr(true),
		},
	}
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
func uintPtr(u uint) *uint       { return &u }
