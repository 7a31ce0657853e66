package subcmd

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sandevgo/tuskcmd/pkg/log"
)

const helpCommand = "help"

var (
	ErrUnreachable = errors.New("operation is unreachable")
	ErrShadowed    = errors.New("operation may be shadowed")
)

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithFormatter replaces the plain text help formatter.
func WithFormatter(f Formatter) Option {
	return func(d *Dispatcher) {
		if f != nil {
			d.formatter = f
		}
	}
}

// Dispatcher routes invocations of one root command to registered handlers.
type Dispatcher struct {
	root      string
	hooks     Hooks
	formatter Formatter

	mu       sync.RWMutex
	handlers []Handler
}

// New creates a dispatcher for root. hooks must not be nil.
func New(root string, hooks Hooks, opts ...Option) *Dispatcher {
	if hooks == nil {
		panic("subcmd: nil hooks")
	}
	d := &Dispatcher{
		root:      root,
		hooks:     hooks,
		formatter: DefaultFormatter{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Root() string {
	return d.root
}

// AddHandlers appends handlers. Earlier handlers win ties.
func (d *Dispatcher) AddHandlers(handlers ...Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, handlers...)
}

// Handlers returns a snapshot of the registered handlers.
func (d *Dispatcher) Handlers() []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Handler, len(d.handlers))
	copy(out, d.handlers)
	return out
}

// Dispatch runs one invocation and reports whether it was acted on. Help,
// permission denials and successful runs count as handled; unknown commands
// and argument count mismatches do not.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) bool {
	s := inv.Sender

	sub := ""
	var args []string
	if len(inv.Args) > 0 {
		sub = inv.Args[0]
		args = inv.Args[1:]
	}
	inv.Args = args

	if sub == helpCommand {
		if len(args) == 1 {
			d.usageHelp(s, args[0])
		} else {
			d.help(s)
		}
		return true
	}

	logger := log.FromCtx(ctx)
	var possible []Meta
	for _, h := range d.Handlers() {
		for _, op := range h.Operations() {
			meta := op.Meta
			if !meta.Matches(sub) || !meta.VisibleTo(s) {
				continue
			}
			possible = append(possible, meta)

			if !meta.Accepts(len(args)) {
				continue
			}
			if !meta.PermittedTo(s) {
				logger.Debug().Str("sender", s.Name()).Str("permission", meta.Permission).Msg("command permission denied")
				d.hooks.PermissionDenied(ctx, s, inv)
				return true
			}

			switch d.invoke(ctx, inv, sub, op, args) {
			case Handled:
				return true
			case Denied:
				d.hooks.PermissionDenied(ctx, s, inv)
				return true
			}
		}
	}

	if len(possible) == 0 {
		d.hooks.UnknownCommand(ctx, s)
		return false
	}
	for _, meta := range possible {
		s.SendMessage(d.formatter.UsageBlock(d.root, meta)...)
	}
	return false
}

// invoke runs a single action. Errors and panics are logged and reported as
// NotYetMatched so the scan goes on.
func (d *Dispatcher) invoke(ctx context.Context, inv Invocation, sub string, op Operation, args []string) (res Result) {
	logger := log.FromCtx(ctx)
	fail := func() *zerolog.Event {
		return logger.Error().
			Str("command", inv.Command).
			Str("label", inv.Label).
			Str("subcommand", sub).
			Str("sender", inv.Sender.Name())
	}

	defer func() {
		if r := recover(); r != nil {
			fail().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("command handler panicked")
			res = NotYetMatched
		}
	}()

	if op.Run == nil {
		fail().Msg("command handler has no action")
		return NotYetMatched
	}

	var passed []string
	if op.Meta.TakesArgs() {
		passed = args
		if passed == nil {
			passed = []string{}
		}
	}

	res, err := op.Run(ctx, inv.Sender, passed)
	if err != nil {
		fail().Err(err).Msg("error invoking command handler")
		return NotYetMatched
	}
	return res
}

func (d *Dispatcher) help(s Sender) {
	var lines []string
	d.each(func(m Meta) {
		if m.VisibleTo(s) && m.PermittedTo(s) {
			lines = append(lines, d.formatter.HelpLine(d.root, m))
		}
	})
	if len(lines) > 0 {
		s.SendMessage(lines...)
	}
}

func (d *Dispatcher) usageHelp(s Sender, name string) {
	d.each(func(m Meta) {
		if m.HasName(name) && m.VisibleTo(s) && m.PermittedTo(s) {
			s.SendMessage(d.formatter.UsageBlock(d.root, m)...)
		}
	})
}

func (d *Dispatcher) each(fn func(Meta)) {
	for _, h := range d.Handlers() {
		for _, op := range h.Operations() {
			fn(op.Meta)
		}
	}
}

// Validate reports declarations that can never run or are likely hidden by an
// earlier operation. Nothing is rejected; callers decide what to do.
func (d *Dispatcher) Validate() error {
	var metas []Meta
	d.each(func(m Meta) { metas = append(metas, m) })

	var errs []error
	for i, m := range metas {
		if m.Min < 0 || m.Max < 0 || m.Min > m.Max {
			errs = append(errs, fmt.Errorf("%w: %s accepts [%d, %d]", ErrUnreachable, d.describe(m), m.Min, m.Max))
			continue
		}
		for _, prev := range metas[:i] {
			if shadows(prev, m) {
				errs = append(errs, fmt.Errorf("%w: %s by %s", ErrShadowed, d.describe(m), d.describe(prev)))
				break
			}
		}
	}
	return errors.Join(errs...)
}

// shadows reports whether prev wins every call that next could match.
func shadows(prev, next Meta) bool {
	if prev.Min > next.Min || prev.Max < next.Max {
		return false
	}
	if next.AllowConsole && !prev.AllowConsole {
		return false
	}
	if len(prev.Names) == 0 || len(next.Names) == 0 {
		return len(prev.Names) == 0 && len(next.Names) == 0
	}
	for _, n := range next.Names {
		if !prev.HasName(n) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) describe(m Meta) string {
	if name := m.Primary(); name != "" {
		return fmt.Sprintf("/%s %s", d.root, name)
	}
	return fmt.Sprintf("/%s", d.root)
}
