package core

import (
	"context"

	"github.com/sandevgo/tuskcmd/pkg/subcmd"
)

// CmdRouter is what transports talk to.
type CmdRouter interface {
	// Execute dispatches a raw line typed by s. ok is false when the line is
	// not addressed to this router at all.
	Execute(ctx context.Context, s subcmd.Sender, line string) (handled, ok bool)
	Root() string
}

// Permissions answers permission checks for transport senders.
type Permissions interface {
	Allowed(ctx context.Context, subjects []string, permission string) bool
}

// Identity is implemented by senders that can hold stored grants.
type Identity interface {
	Subjects() []string
}
