package command

import (
	"fmt"
	"strings"

	"github.com/sandevgo/tuskcmd/pkg/subcmd"
)

// ResponseFormatter builds the Markdown replies sent to senders. Transports
// render it for their medium.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

func (f *ResponseFormatter) Info(title string) string {
	return fmt.Sprintf("⚙️ **%s**", title)
}

func (f *ResponseFormatter) Success(message string) string {
	return fmt.Sprintf("✅ %s", message)
}

func (f *ResponseFormatter) Error(message string) string {
	return fmt.Sprintf("❌ %s", message)
}

func (f *ResponseFormatter) Label(label, value string) string {
	return fmt.Sprintf("**%s**  ›  `%s`", label, value)
}

func (f *ResponseFormatter) Code(text string) string {
	return fmt.Sprintf("`%s`", text)
}

func (f *ResponseFormatter) List(items []string) []string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("› %s", item)
	}
	return lines
}

func (f *ResponseFormatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s", text)
}

// HelpLine renders one entry of the help listing. Commands are wrapped in
// code spans so placeholders like <user> survive HTML rendering.
func (f *ResponseFormatter) HelpLine(root string, m subcmd.Meta) string {
	cmd := "/" + root
	if name := m.Primary(); name != "" {
		cmd += " " + name
	}
	return fmt.Sprintf("%s - %s", f.Code(cmd), m.Description)
}

func (f *ResponseFormatter) UsageBlock(root string, m subcmd.Meta) []string {
	var lines []string
	if desc := strings.TrimSpace(m.Description); desc != "" {
		lines = append(lines, fmt.Sprintf("**%s**", desc))
	}
	if len(m.Usage) == 0 {
		return append(lines, f.HelpLine(root, m))
	}
	for _, u := range m.Usage {
		lines = append(lines, f.Code(fmt.Sprintf("/%s %s", root, u)))
	}
	return lines
}
