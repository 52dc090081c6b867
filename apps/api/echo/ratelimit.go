package echoapi

import (
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Aleguiojo777/Teacher-Portal/core"
)

// loginThrottle is an in-memory per-IP token bucket guarding the login
// endpoint. State is process-local; a multi-node deployment would need a
// shared store.
type loginThrottle struct {
	capacity int
	rate     int // tokens per minute
	mu       sync.Mutex
	state    map[string]*bucket
}

type bucket struct {
	tokens int
	last   time.Time
}

func newLoginThrottle(capacity, perMinute int) *loginThrottle {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &loginThrottle{
		capacity: capacity,
		rate:     perMinute,
		state:    make(map[string]*bucket),
	}
}

func (l *loginThrottle) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ip := ctx.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			if !l.allow(ip) {
				return errTooManyLogins
			}
			return next(ctx)
		}
	}
}

func (l *loginThrottle) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.state[key]
	now := time.Now()
	if !ok {
		b = &bucket{tokens: l.capacity - 1, last: now}
		l.state[key] = b
		return true
	}
	elapsed := now.Sub(b.last).Minutes()
	refill := int(elapsed * float64(l.rate))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

const (
	// failures older than this no longer count towards the lockout threshold
	failureWindow = time.Hour
	// hard cap on tracked emails, against floods of junk addresses
	maxTrackedEmails = 10000
)

// failureTracker counts consecutive failed logins per email and fires an
// alert email once the lockout threshold is crossed. Entries expire after
// failureWindow and the map never grows past maxTrackedEmails.
type failureTracker struct {
	threshold int
	mailSvc   core.EmailService
	now       func() time.Time
	mu        sync.Mutex
	failures  map[string]*failureEntry
}

type failureEntry struct {
	count int
	last  time.Time
}

func newFailureTracker(threshold int, mailSvc core.EmailService) *failureTracker {
	return &failureTracker{
		threshold: threshold,
		mailSvc:   mailSvc,
		now:       time.Now,
		failures:  make(map[string]*failureEntry),
	}
}

func (t *failureTracker) noteFailure(email, ip string) {
	now := t.now()

	t.mu.Lock()
	t.prune(now)
	e, ok := t.failures[email]
	if !ok {
		e = &failureEntry{}
		t.failures[email] = e
	}
	e.count++
	e.last = now
	count := e.count
	t.mu.Unlock()

	if count != t.threshold {
		return
	}
	alertTo := core.Conf.AlertEmail
	if alertTo == "" {
		return
	}
	t.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: alertTo}},
		Subject: "Suspicious login activity",
		Body: fmt.Sprintf(
			"%d consecutive failed login attempts for %s (last from %s).",
			count, email, ip,
		),
	})
}

func (t *failureTracker) noteSuccess(email string) {
	t.mu.Lock()
	delete(t.failures, email)
	t.mu.Unlock()
}

// prune drops entries older than failureWindow, then evicts the stalest
// entries while the map is at capacity. Callers must hold t.mu.
func (t *failureTracker) prune(now time.Time) {
	for email, e := range t.failures {
		if now.Sub(e.last) > failureWindow {
			delete(t.failures, email)
		}
	}
	for len(t.failures) >= maxTrackedEmails {
		var oldest string
		var oldestAt time.Time
		for email, e := range t.failures {
			if oldest == "" || e.last.Before(oldestAt) {
				oldest = email
				oldestAt = e.last
			}
		}
		delete(t.failures, oldest)
	}
}
