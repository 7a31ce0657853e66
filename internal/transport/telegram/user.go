package telegram

import (
	"context"
	"strconv"
	"sync"

	"github.com/sandevgo/tuskcmd/internal/core"
	"github.com/sandevgo/tuskcmd/internal/service/access"
)

// user is the sender for one incoming Telegram message. Replies are
// collected and delivered together once dispatch returns.
type user struct {
	ctx      context.Context
	id       int64
	username string
	owner    bool
	perms    core.Permissions

	mu    sync.Mutex
	lines []string
}

func newUser(ctx context.Context, id int64, username string, ownerID int64, perms core.Permissions) *user {
	return &user{
		ctx:      ctx,
		id:       id,
		username: username,
		owner:    id == ownerID,
		perms:    perms,
	}
}

func (u *user) Name() string {
	if u.username != "" {
		return "@" + u.username
	}
	return strconv.FormatInt(u.id, 10)
}

// HasPermission is always true for the bot owner.
func (u *user) HasPermission(perm string) bool {
	if u.owner {
		return true
	}
	if perm == "" {
		return true
	}
	return u.perms.Allowed(u.ctx, u.Subjects(), perm)
}

func (u *user) Interactive() bool { return true }

func (u *user) SendMessage(lines ...string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lines = append(u.lines, lines...)
}

func (u *user) Subjects() []string {
	return access.TelegramSubjects(u.id, u.username)
}

// replies drains the collected lines.
func (u *user) replies() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	lines := u.lines
	u.lines = nil
	return lines
}
