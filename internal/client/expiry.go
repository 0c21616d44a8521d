package client

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryInterval is how often the stored token is re-checked.
const DefaultExpiryInterval = time.Minute

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// ok is false for tokens that are not JWTs or carry no exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	numeric, err := claims.GetExpirationTime()
	if err != nil || numeric == nil {
		return time.Time{}, false
	}
	return numeric.Time, true
}

// ExpiryWatcher clears the stored token once it has expired so the CLI stops
// sending it. It is advisory; the server remains the authority on validity.
type ExpiryWatcher struct {
	tokens    TokenStore
	interval  time.Duration
	now       func() time.Time
	onExpired func()
}

// NewExpiryWatcher creates a watcher polling every interval (DefaultExpiryInterval
// when zero). onExpired may be nil.
func NewExpiryWatcher(tokens TokenStore, interval time.Duration, onExpired func()) *ExpiryWatcher {
	if interval <= 0 {
		interval = DefaultExpiryInterval
	}
	return &ExpiryWatcher{tokens: tokens, interval: interval, now: time.Now, onExpired: onExpired}
}

// Check clears the token if it is expired and reports whether it did.
func (w *ExpiryWatcher) Check() (bool, error) {
	token, err := w.tokens.Load()
	if err != nil || token == "" {
		return false, err
	}

	exp, ok := TokenExpiry(token)
	if !ok || w.now().Before(exp) {
		return false, nil
	}

	if err := w.tokens.Clear(); err != nil {
		return false, err
	}
	if w.onExpired != nil {
		w.onExpired()
	}
	return true, nil
}

// Run checks immediately and then on every tick until ctx is done.
func (w *ExpiryWatcher) Run(ctx context.Context) error {
	if _, err := w.Check(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Check(); err != nil {
				return err
			}
		}
	}
}
