package installer

// InstallState is shared by all wizard steps.
type InstallState struct {
	EnvPath string
	EnvVars map[string]string
}

func NewInstallState(envPath string) *InstallState {
	return &InstallState{
		EnvPath: envPath,
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) telegramEnabled() bool {
	return s.EnvVars[envEnableTelegram] == "true"
}
