// Package access decides whether transport senders hold a permission, based on
// the grants stored in the database.
package access

import (
	"context"
	"strconv"
	"strings"

	"github.com/sandevgo/tuskcmd/internal/core"
	"github.com/sandevgo/tuskcmd/pkg/log"
)

const telegramPrefix = "tg:"

type Checker struct {
	grants core.GrantsRepository
}

func NewChecker(grants core.GrantsRepository) *Checker {
	return &Checker{grants: grants}
}

// Allowed reports whether any of subjects holds permission. Storage errors
// count as a refusal.
func (c *Checker) Allowed(ctx context.Context, subjects []string, permission string) bool {
	for _, subject := range subjects {
		grants, err := c.grants.ListGrants(ctx, subject)
		if err != nil {
			log.FromCtx(ctx).Error().Err(err).Str("subject", subject).Msg("failed to load grants")
			return false
		}
		for _, g := range grants {
			if Match(g.Permission, permission) {
				return true
			}
		}
	}
	return false
}

// Match reports whether a granted permission covers the requested one.
// "*" covers everything and "a.b.*" covers "a.b" and anything below it.
func Match(granted, requested string) bool {
	if granted == "*" || strings.EqualFold(granted, requested) {
		return true
	}
	prefix, ok := strings.CutSuffix(granted, ".*")
	if !ok {
		return false
	}
	requested = strings.ToLower(requested)
	prefix = strings.ToLower(prefix)
	return requested == prefix || strings.HasPrefix(requested, prefix+".")
}

// NormalizeSubject turns user input like "@Bob" or "12345" into the form
// grants are stored under.
func NormalizeSubject(s string) string {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "@"))
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return telegramPrefix + s
	}
	return s
}

// TelegramSubjects lists the subjects a Telegram user can be granted under.
func TelegramSubjects(id int64, username string) []string {
	subjects := []string{telegramPrefix + strconv.FormatInt(id, 10)}
	if username != "" {
		subjects = append(subjects, NormalizeSubject(username))
	}
	return subjects
}
