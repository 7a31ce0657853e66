package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tuskcmd/pkg/log"
	"github.com/sandevgo/tuskcmd/pkg/subcmd"
)

// Router is the host's dispatcher: it owns the root command and answers
// unknown commands and denials with formatted replies.
type Router struct {
	dispatcher *subcmd.Dispatcher
	formatter  *ResponseFormatter
}

func New(root string, handlers []subcmd.Handler) *Router {
	r := &Router{
		formatter: NewResponseFormatter(),
	}
	r.dispatcher = subcmd.New(root, r, subcmd.WithFormatter(r.formatter))
	r.dispatcher.AddHandlers(handlers...)
	return r
}

func (r *Router) Root() string {
	return r.dispatcher.Root()
}

// AddHandlers registers more handlers after construction.
func (r *Router) AddHandlers(handlers ...subcmd.Handler) {
	r.dispatcher.AddHandlers(handlers...)
}

// Validate reports unreachable or shadowed operations.
func (r *Router) Validate() error {
	return r.dispatcher.Validate()
}

func (r *Router) Execute(ctx context.Context, s subcmd.Sender, line string) (bool, bool) {
	label, args, ok := subcmd.ParseLine(line)
	if !ok || !strings.EqualFold(label, r.Root()) {
		return false, false
	}

	handled := r.dispatcher.Dispatch(ctx, subcmd.Invocation{
		Sender:  s,
		Command: "/" + r.Root(),
		Label:   label,
		Args:    args,
	})
	if !handled {
		log.FromCtx(ctx).Debug().
			Str("sender", s.Name()).
			Strs("args", args).
			Msg("command not handled")
	}
	return handled, true
}

func (r *Router) UnknownCommand(ctx context.Context, s subcmd.Sender) {
	s.SendMessage(
		r.formatter.Error("Unknown command."),
		r.formatter.Tip(fmt.Sprintf("type %s to see what you can do", r.formatter.Code("/"+r.Root()+" help"))),
	)
}

func (r *Router) PermissionDenied(ctx context.Context, s subcmd.Sender, inv subcmd.Invocation) {
	log.FromCtx(ctx).Warn().
		Str("sender", s.Name()).
		Str("label", inv.Label).
		Strs("args", inv.Args).
		Msg("permission denied")
	s.SendMessage(r.formatter.Error("You don't have permission to use this command."))
}
