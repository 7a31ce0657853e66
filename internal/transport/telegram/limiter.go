package telegram

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterSweepEvery = time.Minute

// limiter keeps one token bucket per Telegram user. Buckets that have
// refilled completely carry no state and are dropped on the next sweep.
type limiter struct {
	mu         sync.Mutex
	limit      rate.Limit
	burst      int
	users      map[int64]*rate.Limiter
	now        func() time.Time
	sweepEvery time.Duration
	lastSweep  time.Time
}

// newLimiter allows perSecond commands per user on average with bursts of
// burst. A non-positive rate disables limiting.
func newLimiter(perSecond float64, burst int) *limiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &limiter{
		limit:      limit,
		burst:      burst,
		users:      make(map[int64]*rate.Limiter),
		now:        time.Now,
		sweepEvery: limiterSweepEvery,
	}
}

func (l *limiter) Allow(id int64) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.sweepEvery {
		l.sweep(now)
	}

	lim, ok := l.users[id]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.users[id] = lim
	}
	return lim.AllowN(now, 1)
}

func (l *limiter) sweep(now time.Time) {
	for id, lim := range l.users {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.users, id)
		}
	}
	l.lastSweep = now
}
