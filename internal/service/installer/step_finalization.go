package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep fills in defaults for anything left unset
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return next
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	if state.EnvVars[envRootCommand] == "" {
		state.EnvVars[envRootCommand] = defaultRootCommand
	}
	if state.EnvVars[envEnableCLI] == "" {
		state.EnvVars[envEnableCLI] = "true"
	}
	if state.EnvVars[envTelegramToken] == "" {
		state.EnvVars[envEnableTelegram] = "false"
		delete(state.EnvVars, envTelegramOwner)
	}
	if state.EnvVars[envDebug] == "" {
		state.EnvVars[envDebug] = "0"
	}
}
