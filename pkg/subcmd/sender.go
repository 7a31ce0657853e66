package subcmd

import "context"

// Sender is whoever typed the command.
type Sender interface {
	Name() string
	HasPermission(perm string) bool
	// Interactive is false for the operator console.
	Interactive() bool
	SendMessage(lines ...string)
}

// Invocation is a single raw call as the host received it.
type Invocation struct {
	Sender Sender
	// Command identifies the host-level command, used in logs only.
	Command string
	Label   string
	Args    []string
}

// Hooks are the host's reactions to failed lookups. Both run synchronously.
type Hooks interface {
	UnknownCommand(ctx context.Context, s Sender)
	PermissionDenied(ctx context.Context, s Sender, inv Invocation)
}
