package command

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sandevgo/tuskcmd/internal/core"
	"github.com/sandevgo/tuskcmd/internal/service/access"
	"github.com/sandevgo/tuskcmd/pkg/subcmd"
)

const (
	PermPermsManage = "tusk.perms.manage"
	PermPermsView   = "tusk.perms.view"
)

var permissionPattern = regexp.MustCompile(`^(\*|[a-z0-9_-]+(\.[a-z0-9_-]+)*(\.\*)?)$`)

// PermsCommand manages stored permission grants.
type PermsCommand struct {
	grants    core.GrantsRepository
	formatter *ResponseFormatter
}

func NewPermsCommand(grants core.GrantsRepository) *PermsCommand {
	return &PermsCommand{
		grants:    grants,
		formatter: NewResponseFormatter(),
	}
}

func (c *PermsCommand) Operations() []subcmd.Operation {
	return []subcmd.Operation{
		subcmd.Op(subcmd.Meta{
			Names:        []string{"grant"},
			Permission:   PermPermsManage,
			Usage:        []string{"grant <user> <permission>"},
			Min:          2,
			Max:          2,
			AllowConsole: true,
			Description:  "Give a user a permission",
		}, c.grant),
		subcmd.Op(subcmd.Meta{
			Names:        []string{"revoke"},
			Permission:   PermPermsManage,
			Usage:        []string{"revoke <user> <permission>"},
			Min:          2,
			Max:          2,
			AllowConsole: true,
			Description:  "Take a permission away from a user",
		}, c.revoke),
		subcmd.Op(subcmd.Meta{
			Names:        []string{"perms", "permissions"},
			Permission:   PermPermsView,
			Usage:        []string{"perms", "perms <user>"},
			Max:          1,
			AllowConsole: true,
			Description:  "List granted permissions",
		}, c.list),
		subcmd.Op(subcmd.Meta{
			Names:       []string{"whoami"},
			Description: "Show who you are and what you may do",
		}, c.whoami),
	}
}

func (c *PermsCommand) grant(ctx context.Context, s subcmd.Sender, args []string) (subcmd.Result, error) {
	subject, perm := access.NormalizeSubject(args[0]), strings.ToLower(args[1])
	if !permissionPattern.MatchString(perm) {
		return subcmd.NotYetMatched, nil
	}
	// Nobody hands out more than they hold.
	if !s.HasPermission(perm) {
		return subcmd.Denied, nil
	}

	err := c.grants.AddGrant(ctx, core.Grant{Subject: subject, Permission: perm, GrantedBy: s.Name()})
	switch {
	case errors.Is(err, core.ErrGrantExists):
		s.SendMessage(c.formatter.Error(fmt.Sprintf("%s already has %s.", subject, c.formatter.Code(perm))))
	case err != nil:
		return subcmd.Handled, fmt.Errorf("failed to grant %s to %s: %w", perm, subject, err)
	default:
		s.SendMessage(c.formatter.Success(fmt.Sprintf("Granted %s to %s.", c.formatter.Code(perm), subject)))
	}
	return subcmd.Handled, nil
}

func (c *PermsCommand) revoke(ctx context.Context, s subcmd.Sender, args []string) (subcmd.Result, error) {
	subject, perm := access.NormalizeSubject(args[0]), strings.ToLower(args[1])
	if !permissionPattern.MatchString(perm) {
		return subcmd.NotYetMatched, nil
	}
	if !s.HasPermission(perm) {
		return subcmd.Denied, nil
	}

	err := c.grants.RemoveGrant(ctx, subject, perm)
	switch {
	case errors.Is(err, core.ErrGrantNotFound):
		s.SendMessage(c.formatter.Error(fmt.Sprintf("%s does not have %s.", subject, c.formatter.Code(perm))))
	case err != nil:
		return subcmd.Handled, fmt.Errorf("failed to revoke %s from %s: %w", perm, subject, err)
	default:
		s.SendMessage(c.formatter.Success(fmt.Sprintf("Revoked %s from %s.", c.formatter.Code(perm), subject)))
	}
	return subcmd.Handled, nil
}

func (c *PermsCommand) list(ctx context.Context, s subcmd.Sender, args []string) (subcmd.Result, error) {
	subject := ""
	if len(args) == 1 {
		subject = access.NormalizeSubject(args[0])
	}

	grants, err := c.grants.ListGrants(ctx, subject)
	if err != nil {
		return subcmd.Handled, err
	}

	title := "Permissions"
	if subject != "" {
		title = fmt.Sprintf("Permissions of %s", subject)
	}
	if len(grants) == 0 {
		s.SendMessage(c.formatter.Info(title), "No permissions granted.")
		return subcmd.Handled, nil
	}

	items := make([]string, len(grants))
	for i, g := range grants {
		if subject != "" {
			items[i] = c.formatter.Code(g.Permission)
		} else {
			items[i] = fmt.Sprintf("%s %s", g.Subject, c.formatter.Code(g.Permission))
		}
	}
	s.SendMessage(append([]string{c.formatter.Info(title)}, c.formatter.List(items)...)...)
	return subcmd.Handled, nil
}

func (c *PermsCommand) whoami(ctx context.Context, s subcmd.Sender, _ []string) (subcmd.Result, error) {
	lines := []string{c.formatter.Info(s.Name())}

	id, ok := s.(core.Identity)
	if !ok {
		s.SendMessage(lines...)
		return subcmd.Handled, nil
	}

	var items []string
	for _, subject := range id.Subjects() {
		grants, err := c.grants.ListGrants(ctx, subject)
		if err != nil {
			return subcmd.Handled, err
		}
		for _, g := range grants {
			items = append(items, c.formatter.Code(g.Permission))
		}
	}

	lines = append(lines, c.formatter.Label("Known as", strings.Join(id.Subjects(), ", ")))
	if len(items) == 0 {
		lines = append(lines, "No permissions granted.")
	} else {
		lines = append(lines, c.formatter.List(items)...)
	}
	s.SendMessage(lines...)
	return subcmd.Handled, nil
}
