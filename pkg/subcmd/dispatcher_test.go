package subcmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name        string
	interactive bool
	perms       map[string]bool
	lines       []string
}

func newPlayer(perms ...string) *fakeSender {
	s := &fakeSender{name: "player", interactive: true, perms: map[string]bool{}}
	for _, p := range perms {
		s.perms[p] = true
	}
	return s
}

func newConsole() *fakeSender {
	return &fakeSender{name: "console", perms: map[string]bool{}}
}

func (f *fakeSender) Name() string                   { return f.name }
func (f *fakeSender) HasPermission(perm string) bool { return f.perms[perm] }
func (f *fakeSender) Interactive() bool              { return f.interactive }
func (f *fakeSender) SendMessage(lines ...string)    { f.lines = append(f.lines, lines...) }

type recordingHooks struct {
	unknown int
	denied  []Invocation
}

func (h *recordingHooks) UnknownCommand(ctx context.Context, s Sender) {
	h.unknown++
}

func (h *recordingHooks) PermissionDenied(ctx context.Context, s Sender, inv Invocation) {
	h.denied = append(h.denied, inv)
}

// counter returns an action that records its calls and answers res.
func counter(calls *int, res Result) Action {
	return func(ctx context.Context, s Sender, args []string) (Result, error) {
		*calls++
		return res, nil
	}
}

func dispatch(d *Dispatcher, s Sender, args ...string) bool {
	return d.Dispatch(context.Background(), Invocation{Sender: s, Command: "foo", Label: "foo", Args: args})
}

func TestDispatch_Scenarios(t *testing.T) {
	t.Run("A interactive sender runs named operation", func(t *testing.T) {
		hooks := &recordingHooks{}
		d := New("foo", hooks)
		calls := 0
		d.AddHandlers(Operations{Op(Meta{Names: []string{"bar"}}, counter(&calls, Handled))})

		assert.True(t, dispatch(d, newPlayer(), "bar"))
		assert.Equal(t, 1, calls)
		assert.Zero(t, hooks.unknown)
	})

	t.Run("B console cannot see interactive-only operation", func(t *testing.T) {
		hooks := &recordingHooks{}
		d := New("foo", hooks)
		calls := 0
		d.AddHandlers(Operations{Op(Meta{Names: []string{"bar"}}, counter(&calls, Handled))})

		console := newConsole()
		assert.False(t, dispatch(d, console, "bar"))
		assert.Zero(t, calls)
		assert.Equal(t, 1, hooks.unknown)
		assert.Empty(t, console.lines)
	})

	t.Run("C bounds mismatch prints usage", func(t *testing.T) {
		hooks := &recordingHooks{}
		d := New("foo", hooks)
		calls := 0
		d.AddHandlers(Operations{Op(Meta{
			Names:       []string{"set"},
			Usage:       []string{"set <value>"},
			Min:         1,
			Max:         1,
			Description: "Sets the value",
		}, counter(&calls, Handled))})

		p := newPlayer()
		assert.False(t, dispatch(d, p, "set"))
		assert.Zero(t, calls)
		assert.Zero(t, hooks.unknown)
		assert.Equal(t, []string{"Sets the value", "/foo set <value>"}, p.lines)
	})

	t.Run("D missing permission fires denied hook", func(t *testing.T) {
		hooks := &recordingHooks{}
		d := New("foo", hooks)
		calls := 0
		d.AddHandlers(Operations{Op(Meta{
			Names:      []string{"set"},
			Permission: "admin.set",
			Min:        1,
			Max:        1,
		}, counter(&calls, Handled))})

		assert.True(t, dispatch(d, newPlayer(), "set", "x"))
		assert.Zero(t, calls)
		require.Len(t, hooks.denied, 1)
		assert.Equal(t, []string{"x"}, hooks.denied[0].Args)
		assert.Equal(t, "foo", hooks.denied[0].Label)
	})

	t.Run("E help lists visible operations in order", func(t *testing.T) {
		hooks := &recordingHooks{}
		d := New("foo", hooks)
		calls := 0
		d.AddHandlers(
			Operations{Op(Meta{Description: "Shows status"}, counter(&calls, Handled))},
			Operations{Op(Meta{Names: []string{"set", "s"}, Description: "Sets the value"}, counter(&calls, Handled))},
		)

		p := newPlayer()
		assert.True(t, dispatch(d, p, "help"))
		assert.Zero(t, calls)
		assert.Equal(t, []string{"/foo - Shows status", "/foo set - Sets the value"}, p.lines)
	})

	t.Run("F help with name prints that usage only", func(t *testing.T) {
		hooks := &recordingHooks{}
		d := New("foo", hooks)
		calls := 0
		d.AddHandlers(Operations{
			Op(Meta{Names: []string{"get"}, Description: "Gets the value"}, counter(&calls, Handled)),
			Op(Meta{Names: []string{"set"}, Usage: []string{"set <value>"}, Description: "Sets the value"}, counter(&calls, Handled)),
		})

		p := newPlayer()
		assert.True(t, dispatch(d, p, "help", "set"))
		assert.Zero(t, calls)
		assert.Equal(t, []string{"Sets the value", "/foo set <value>"}, p.lines)
	})
}

func TestDispatch_DefaultOperation(t *testing.T) {
	hooks := &recordingHooks{}
	d := New("foo", hooks)
	defCalls, namedCalls := 0, 0
	d.AddHandlers(Operations{
		Op(Meta{Names: []string{"bar"}, AllowConsole: true}, counter(&namedCalls, Handled)),
		Op(Meta{AllowConsole: true}, counter(&defCalls, Handled)),
	})

	assert.True(t, dispatch(d, newConsole()))
	assert.Equal(t, 1, defCalls)
	assert.Zero(t, namedCalls)

	// A default operation never matches a non-empty sub-command.
	assert.False(t, dispatch(d, newConsole(), "baz"))
	assert.Equal(t, 1, hooks.unknown)
}

func TestDispatch_CaseInsensitiveNames(t *testing.T) {
	d := New("foo", &recordingHooks{})
	calls := 0
	d.AddHandlers(Operations{Op(Meta{Names: []string{"Reload"}, AllowConsole: true}, counter(&calls, Handled))})

	for _, sub := range []string{"reload", "RELOAD", "ReLoAd"} {
		assert.True(t, dispatch(d, newConsole(), sub), sub)
	}
	assert.Equal(t, 3, calls)

	p := newPlayer()
	assert.True(t, dispatch(d, p, "help", "RELOAD"))
	assert.Equal(t, []string{"", "/foo Reload - "}, p.lines)
}

func TestDispatch_HelpIsCaseSensitive(t *testing.T) {
	hooks := &recordingHooks{}
	d := New("foo", hooks)
	d.AddHandlers(Operations{Op(Meta{Names: []string{"bar"}}, counter(new(int), Handled))})

	assert.False(t, dispatch(d, newPlayer(), "HELP"))
	assert.Equal(t, 1, hooks.unknown)
}

func TestDispatch_HelpFiltersVisibilityAndPermission(t *testing.T) {
	d := New("foo", &recordingHooks{})
	d.AddHandlers(Operations{
		Op(Meta{Names: []string{"open"}, AllowConsole: true, Description: "open"}, counter(new(int), Handled)),
		Op(Meta{Names: []string{"secret"}, AllowConsole: true, Permission: "x.secret", Description: "secret"}, counter(new(int), Handled)),
		Op(Meta{Names: []string{"player"}, Description: "player"}, counter(new(int), Handled)),
	})

	console := newConsole()
	assert.True(t, dispatch(d, console, "help"))
	assert.Equal(t, []string{"/foo open - open"}, console.lines)

	p := newPlayer("x.secret")
	assert.True(t, dispatch(d, p, "help", "extra", "tokens"))
	assert.Equal(t, []string{"/foo open - open", "/foo secret - secret", "/foo player - player"}, p.lines)

	p = newPlayer()
	assert.True(t, dispatch(d, p, "help", "secret"))
	assert.Empty(t, p.lines)
}

func TestDispatch_PermissionDeniedStopsScan(t *testing.T) {
	hooks := &recordingHooks{}
	d := New("foo", hooks)
	first, second := 0, 0
	d.AddHandlers(
		Operations{Op(Meta{Names: []string{"kick"}, Permission: "mod.kick", Min: 1, Max: 1}, counter(&first, Handled))},
		Operations{Op(Meta{Names: []string{"kick"}, Min: 1, Max: 1}, counter(&second, Handled))},
	)

	assert.True(t, dispatch(d, newPlayer(), "kick", "bob"))
	assert.Zero(t, first)
	assert.Zero(t, second)
	assert.Len(t, hooks.denied, 1)
}

func TestDispatch_Results(t *testing.T) {
	t.Run("denied result fires hook once", func(t *testing.T) {
		hooks := &recordingHooks{}
		d := New("foo", hooks)
		later := 0
		d.AddHandlers(Operations{
			Op(Meta{Names: []string{"op"}}, counter(new(int), Denied)),
			Op(Meta{Names: []string{"op"}}, counter(&later, Handled)),
		})

		assert.True(t, dispatch(d, newPlayer(), "op"))
		assert.Len(t, hooks.denied, 1)
		assert.Zero(t, later)
	})

	t.Run("not yet matched falls through to the next overload", func(t *testing.T) {
		hooks := &recordingHooks{}
		d := New("foo", hooks)
		first, second := 0, 0
		d.AddHandlers(Operations{
			Op(Meta{Names: []string{"tp"}, Min: 1, Max: 2}, counter(&first, NotYetMatched)),
			Op(Meta{Names: []string{"tp"}, Min: 1, Max: 3}, counter(&second, Handled)),
		})

		assert.True(t, dispatch(d, newPlayer(), "tp", "a", "b"))
		assert.Equal(t, 1, first)
		assert.Equal(t, 1, second)
	})

	t.Run("all fall through prints usage for every candidate", func(t *testing.T) {
		hooks := &recordingHooks{}
		d := New("foo", hooks)
		d.AddHandlers(Operations{
			Op(Meta{Names: []string{"tp"}, Min: 1, Max: 1, Usage: []string{"tp <player>"}, Description: "one"}, counter(new(int), NotYetMatched)),
			Op(Meta{Names: []string{"tp"}, Min: 3, Max: 3, Usage: []string{"tp <x> <y> <z>"}, Description: "three"}, counter(new(int), Handled)),
		})

		p := newPlayer()
		assert.False(t, dispatch(d, p, "tp", "bob"))
		assert.Equal(t, []string{"one", "/foo tp <player>", "three", "/foo tp <x> <y> <z>"}, p.lines)
		assert.Zero(t, hooks.unknown)
	})

	t.Run("unknown result value falls through", func(t *testing.T) {
		d := New("foo", &recordingHooks{})
		d.AddHandlers(Operations{Op(Meta{Names: []string{"x"}}, counter(new(int), Result(42)))})
		assert.False(t, dispatch(d, newPlayer(), "x"))
	})
}

func TestDispatch_FirstMatchSkipsLaterCandidates(t *testing.T) {
	d := New("foo", &recordingHooks{})
	d.AddHandlers(Operations{
		Op(Meta{Names: []string{"a"}}, counter(new(int), Handled)),
		Op(Meta{Names: []string{"a"}, Min: 5, Max: 5, Description: "never listed"}, counter(new(int), Handled)),
	})

	p := newPlayer()
	assert.True(t, dispatch(d, p, "a"))
	assert.Empty(t, p.lines)
}

func TestDispatch_ArgumentPassing(t *testing.T) {
	tests := []struct {
		name string
		meta Meta
		args []string
		want []string
	}{
		{name: "sender shape gets nil", meta: Meta{Names: []string{"x"}}, args: nil, want: nil},
		{name: "args shape gets empty slice", meta: Meta{Names: []string{"x"}, Shape: ShapeArgs}, args: nil, want: []string{}},
		{name: "bounded operation gets args", meta: Meta{Names: []string{"x"}, Min: 1, Max: 2}, args: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "optional args reach sender shape when max is set", meta: Meta{Names: []string{"x"}, Max: 1}, args: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New("foo", &recordingHooks{})
			var got []string
			called := false
			d.AddHandlers(Operations{Op(tt.meta, func(ctx context.Context, s Sender, args []string) (Result, error) {
				called = true
				got = args
				return Handled, nil
			})})

			require.True(t, dispatch(d, newPlayer(), append([]string{"x"}, tt.args...)...))
			require.True(t, called)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatch_FailureBoundary(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	hooks := &recordingHooks{}
	d := New("foo", hooks)
	after := 0
	d.AddHandlers(Operations{
		Op(Meta{Names: []string{"boom"}}, func(ctx context.Context, s Sender, args []string) (Result, error) {
			return Handled, errors.New("disk on fire")
		}),
		Op(Meta{Names: []string{"boom"}}, func(ctx context.Context, s Sender, args []string) (Result, error) {
			panic("nil map")
		}),
		Op(Meta{Names: []string{"boom"}}, nil),
		Op(Meta{Names: []string{"boom"}}, counter(&after, Handled)),
	})

	p := newPlayer()
	ok := d.Dispatch(ctx, Invocation{Sender: p, Command: "foo", Label: "f", Args: []string{"boom"}})
	assert.True(t, ok)
	assert.Equal(t, 1, after)
	assert.Empty(t, p.lines)

	out := buf.String()
	assert.Contains(t, out, "error invoking command handler")
	assert.Contains(t, out, "disk on fire")
	assert.Contains(t, out, "command handler panicked")
	assert.Contains(t, out, "command handler has no action")
	assert.Contains(t, out, `"command":"foo"`)
	assert.Contains(t, out, `"subcommand":"boom"`)
}

func TestDispatch_FailureWithoutFallbackIsNotHandled(t *testing.T) {
	hooks := &recordingHooks{}
	d := New("foo", hooks)
	d.AddHandlers(Operations{Op(Meta{Names: []string{"boom"}, Description: "explodes"}, func(ctx context.Context, s Sender, args []string) (Result, error) {
		return Handled, errors.New("nope")
	})})

	p := newPlayer()
	assert.False(t, dispatch(d, p, "boom"))
	assert.Equal(t, []string{"explodes", "/foo boom - explodes"}, p.lines)
}

func TestDispatch_Idempotent(t *testing.T) {
	hooks := &recordingHooks{}
	d := New("foo", hooks)
	d.AddHandlers(Operations{Op(Meta{Names: []string{"set"}, Min: 1, Max: 1, Description: "set"}, counter(new(int), Handled))})

	first, second := newPlayer(), newPlayer()
	assert.Equal(t, dispatch(d, first, "set"), dispatch(d, second, "set"))
	assert.Equal(t, first.lines, second.lines)

	assert.False(t, dispatch(d, newPlayer(), "nope"))
	assert.False(t, dispatch(d, newPlayer(), "nope"))
	assert.Equal(t, 2, hooks.unknown)
}

func TestNew_NilHooksPanics(t *testing.T) {
	assert.Panics(t, func() { New("foo", nil) })
}

func TestDispatcher_Validate(t *testing.T) {
	t.Run("clean declarations", func(t *testing.T) {
		d := New("foo", &recordingHooks{})
		d.AddHandlers(Operations{
			Op(Meta{Names: []string{"motd"}}, nil),
			Op(Meta{Names: []string{"motd"}, Min: 1, Max: 32}, nil),
			Op(Meta{}, nil),
		})
		assert.NoError(t, d.Validate())
	})

	t.Run("min greater than max", func(t *testing.T) {
		d := New("foo", &recordingHooks{})
		d.AddHandlers(Operations{Op(Meta{Names: []string{"bad"}, Min: 2, Max: 1}, nil)})
		err := d.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnreachable)
		assert.Contains(t, err.Error(), "/foo bad")
	})

	t.Run("broader earlier operation shadows a later one", func(t *testing.T) {
		d := New("foo", &recordingHooks{})
		d.AddHandlers(
			Operations{Op(Meta{Names: []string{"give", "g"}, Max: 3}, nil)},
			Operations{Op(Meta{Names: []string{"G"}, Min: 1, Max: 2}, nil)},
		)
		err := d.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrShadowed)
	})

	t.Run("console access keeps a later operation reachable", func(t *testing.T) {
		d := New("foo", &recordingHooks{})
		d.AddHandlers(Operations{
			Op(Meta{Names: []string{"stop"}}, nil),
			Op(Meta{Names: []string{"stop"}, AllowConsole: true}, nil),
		})
		assert.NoError(t, d.Validate())
	})
}

func TestDispatcher_ConcurrentRegistration(t *testing.T) {
	d := New("foo", &recordingHooks{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			d.AddHandlers(Operations{Op(Meta{Names: []string{"x"}, AllowConsole: true}, counter(new(int), Handled))})
		}
	}()
	for i := 0; i < 100; i++ {
		dispatch(d, newConsole(), "x")
	}
	<-done
	assert.Len(t, d.Handlers(), 100)
}
