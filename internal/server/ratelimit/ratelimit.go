// Package ratelimit throttles editor API clients with golang.org/x/time/rate
// token buckets, one per client and named rule.
package ratelimit

import (
	"net/http"
	"net/netip"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Blocked    bool   // client is on the blocked list
	Rule       string // name of the rule that applied, empty when none did
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucketKey struct {
	client string
	rule   string
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter applies Config rules per client.
type Limiter struct {
	config  *Config
	rules   *matcher
	mu      sync.Mutex
	buckets map[bucketKey]*bucket
	now     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a limiter for config, or for LoadConfig's defaults when
// config is nil. It panics if rule patterns are invalid or conflict.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = time.Hour
	}
	if config.Default.Name == "" {
		config.Default.Name = "default"
	}

	l := &Limiter{
		config:  config,
		rules:   newMatcher(config.Rules),
		buckets: make(map[bucketKey]*bucket),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanup(config.CleanupInterval)
	}
	return l
}

// Allow charges one token to clientID for the rule r falls under.
func (l *Limiter) Allow(clientID string, r *http.Request) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}
	if addr, err := netip.ParseAddr(clientID); err == nil {
		addr = addr.Unmap()
		if l.config.Exempt[addr] {
			return true, Info{Allowed: true}
		}
		if l.config.Blocked[addr] {
			return false, Info{Blocked: true}
		}
	}

	rule := l.rules.match(r)
	if rule == nil {
		rule = &l.config.Default
	}
	if rule.Unlimited() {
		return true, Info{Allowed: true, Rule: rule.Name}
	}

	now := l.now()
	lim := l.bucketFor(bucketKey{client: clientID, rule: rule.Name}, rule, now)
	allowed := lim.AllowN(now, 1)

	info := Info{Allowed: allowed, Rule: rule.Name, Limit: rule.Limit, ResetTime: now}
	tokens := lim.TokensAt(now)
	if tokens > 0 {
		info.Remaining = int(tokens)
	}
	perSecond := float64(lim.Limit())
	if missing := float64(lim.Burst()) - tokens; missing > 0 {
		info.ResetTime = now.Add(seconds(missing / perSecond))
	}
	if !allowed {
		info.RetryAfter = seconds((1 - tokens) / perSecond)
	}
	return allowed, info
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// bucketFor returns the bucket for key, creating it from rule on first use.
func (l *Limiter) bucketFor(key bucketKey, rule *Rule, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		b.lastAccess = now
		return b.limiter
	}

	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}
	every := rate.Limit(float64(rule.Limit) / rule.Window.Seconds())
	b := &bucket{limiter: rate.NewLimiter(every, burst), lastAccess: now}
	l.buckets[key] = b
	return b.limiter
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.dropIdle()
		case <-l.stop:
			return
		}
	}
}

// dropIdle removes buckets idle longer than IdleTimeout. A dropped bucket
// comes back full, which an idle client would have reached anyway.
func (l *Limiter) dropIdle() {
	cutoff := l.now().Add(-l.config.IdleTimeout)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
