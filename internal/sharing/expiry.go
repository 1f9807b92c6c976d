package sharing

import "time"

const (
	ClipboardTTL    = 15 * time.Minute
	DefaultFileDays = 7
	ShortURLTTL     = 365 * 24 * time.Hour
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// UTCNow is the production Clock.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// Lifetime is the created/expires pair every shared record carries.
type Lifetime struct {
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewLifetime starts a lifetime at now lasting ttl.
func NewLifetime(now time.Time, ttl time.Duration) Lifetime {
	return Lifetime{CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

// LiveAt reports whether the record is still live: now < expires_at.
func (l Lifetime) LiveAt(now time.Time) bool {
	return now.Before(l.ExpiresAt)
}
