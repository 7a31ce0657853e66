package installer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultRootCommand = "tusk"

var rootCommandPattern = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// RootCommandStep asks for the command every sub-command lives under.
type RootCommandStep struct {
	input textinput.Model
	err   error
}

func NewRootCommandStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40
	ti.Placeholder = defaultRootCommand

	return &RootCommandStep{input: ti}
}

func (s *RootCommandStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *RootCommandStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		root, err := parseRootCommand(s.input.Value())
		if err != nil {
			s.err = err
			return s, nil
		}
		state.EnvVars[envRootCommand] = root
		return nil, nil
	}
	return s, cmd
}

func (s *RootCommandStep) View(state *InstallState) string {
	view := "Root command (users type /<root> help):\n\n" + s.input.View() + "\n\n"
	if s.err != nil {
		view += errorStyle.Render(s.err.Error()) + "\n\n"
	}
	return view + "(press enter to confirm)\n"
}

// parseRootCommand accepts "tusk" or "/tusk"; empty input picks the default.
func parseRootCommand(v string) (string, error) {
	v = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(v), "/"))
	if v == "" {
		return defaultRootCommand, nil
	}
	if !rootCommandPattern.MatchString(v) {
		return "", fmt.Errorf("use 1-32 lowercase letters, digits or underscores")
	}
	return v, nil
}
