package subcmd

import "strings"

// ParseLine splits a chat line such as "/tusk grant bob admin" into its label
// and argument tokens. Lines that do not start with a slash are not commands.
// A "@botname" suffix on the label is dropped.
func ParseLine(line string) (label string, args []string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return "", nil, false
	}

	parts := strings.Fields(line[1:])
	if len(parts) == 0 {
		return "", nil, false
	}

	label = parts[0]
	if i := strings.IndexByte(label, '@'); i >= 0 {
		label = label[:i]
	}
	if label == "" {
		return "", nil, false
	}
	return label, parts[1:], true
}
