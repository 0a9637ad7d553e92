// Package notify delivers short user-facing notices about tracker outcomes.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Level is the severity of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// DefaultTTL is how long a banner notice stays visible.
const DefaultTTL = 5 * time.Second

// Notice is a single message shown to the user.
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Banner keeps at most one visible notice. A new notice replaces the previous
// one and each notice disappears on its own after the TTL.
type Banner struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current *Notice
	timer   *time.Timer
	closed  bool
}

// NewBanner creates a Banner. A non-positive ttl uses DefaultTTL.
func NewBanner(ttl time.Duration) *Banner {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Banner{ttl: ttl, now: time.Now}
}

// Notify shows msg, replacing any visible notice.
func (b *Banner) Notify(level Level, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if b.timer != nil {
		b.timer.Stop()
	}

	notice := &Notice{Level: level, Message: msg, ExpiresAt: b.now().Add(b.ttl)}
	b.current = notice
	b.timer = time.AfterFunc(b.ttl, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// A newer notice may have replaced this one already.
		if b.current == notice {
			b.current = nil
			b.timer = nil
		}
	})
}

// Current returns the visible notice, if any.
func (b *Banner) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

// Dismiss hides the visible notice.
func (b *Banner) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear()
}

// Close stops the pending timer. Later notices are ignored.
func (b *Banner) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear()
	b.closed = true
}

func (b *Banner) clear() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.current = nil
}

// Console writes every notice as a "[level] message" line.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Notify writes the notice line.
func (c *Console) Notify(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[%s] %s\n", level, msg)
}
