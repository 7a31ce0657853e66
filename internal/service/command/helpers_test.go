package command

import (
	"context"
	"sort"

	"github.com/sandevgo/tuskcmd/internal/core"
	"github.com/sandevgo/tuskcmd/internal/service/access"
)

type testSender struct {
	name        string
	interactive bool
	subjects    []string
	all         bool
	perms       map[string]bool
	lines       []string
}

func console() *testSender {
	return &testSender{name: "console", all: true}
}

func player(name string, perms ...string) *testSender {
	s := &testSender{name: name, interactive: true, subjects: []string{name}, perms: map[string]bool{}}
	for _, p := range perms {
		s.perms[p] = true
	}
	return s
}

func (s *testSender) Name() string { return s.name }

func (s *testSender) HasPermission(perm string) bool {
	if s.all {
		return true
	}
	for granted := range s.perms {
		if access.Match(granted, perm) {
			return true
		}
	}
	return false
}

func (s *testSender) Interactive() bool           { return s.interactive }
func (s *testSender) SendMessage(lines ...string) { s.lines = append(s.lines, lines...) }
func (s *testSender) Subjects() []string          { return s.subjects }

type memSettings struct {
	values map[string]string
	err    error
}

func newMemSettings() *memSettings {
	return &memSettings{values: map[string]string{}}
}

func (m *memSettings) GetSetting(ctx context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memSettings) SetSetting(ctx context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

type memGrants struct {
	grants map[string]map[string]core.Grant
}

func newMemGrants() *memGrants {
	return &memGrants{grants: map[string]map[string]core.Grant{}}
}

func (m *memGrants) AddGrant(ctx context.Context, g core.Grant) error {
	if m.grants[g.Subject] == nil {
		m.grants[g.Subject] = map[string]core.Grant{}
	}
	if _, ok := m.grants[g.Subject][g.Permission]; ok {
		return core.ErrGrantExists
	}
	m.grants[g.Subject][g.Permission] = g
	return nil
}

func (m *memGrants) RemoveGrant(ctx context.Context, subject, permission string) error {
	if _, ok := m.grants[subject][permission]; !ok {
		return core.ErrGrantNotFound
	}
	delete(m.grants[subject], permission)
	return nil
}

func (m *memGrants) ListGrants(ctx context.Context, subject string) ([]core.Grant, error) {
	var out []core.Grant
	for s, perms := range m.grants {
		if subject != "" && s != subject {
			continue
		}
		for _, g := range perms {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Subject != out[j].Subject {
			return out[i].Subject < out[j].Subject
		}
		return out[i].Permission < out[j].Permission
	})
	return out, nil
}
