package subcmd

import "context"

// Result is what an operation reports back to the dispatcher.
type Result int

const (
	// Handled ends dispatch; the command was acted on.
	Handled Result = iota
	// Denied ends dispatch through the permission-denied hook.
	Denied
	// NotYetMatched lets the dispatcher keep scanning, so several operations
	// can share a name and split the work between them.
	NotYetMatched
)

func (r Result) String() string {
	switch r {
	case Handled:
		return "handled"
	case Denied:
		return "denied"
	case NotYetMatched:
		return "not_yet_matched"
	default:
		return "unknown"
	}
}

// Action is the body of an operation. args is nil unless Meta.TakesArgs.
type Action func(ctx context.Context, s Sender, args []string) (Result, error)

// Operation pairs metadata with the code that runs it.
type Operation struct {
	Meta Meta
	Run  Action
}

// Op is shorthand for building an Operation.
func Op(meta Meta, run Action) Operation {
	return Operation{Meta: meta, Run: run}
}

// Handler groups related operations.
type Handler interface {
	Operations() []Operation
}

// Operations is a Handler backed by a plain slice.
type Operations []Operation

func (o Operations) Operations() []Operation {
	return o
}
