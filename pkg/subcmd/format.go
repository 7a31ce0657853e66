package subcmd

import "fmt"

// Formatter renders help output. The root argument is the command name
// without its leading slash.
type Formatter interface {
	HelpLine(root string, m Meta) string
	UsageBlock(root string, m Meta) []string
}

// DefaultFormatter renders plain text lines.
type DefaultFormatter struct{}

func (DefaultFormatter) HelpLine(root string, m Meta) string {
	if name := m.Primary(); name != "" {
		return fmt.Sprintf("/%s %s - %s", root, name, m.Description)
	}
	return fmt.Sprintf("/%s - %s", root, m.Description)
}

func (f DefaultFormatter) UsageBlock(root string, m Meta) []string {
	lines := []string{m.Description}
	if len(m.Usage) == 0 {
		return append(lines, f.HelpLine(root, m))
	}
	for _, u := range m.Usage {
		lines = append(lines, fmt.Sprintf("/%s %s", root, u))
	}
	return lines
}
