package models

import "time"

// Link represents a shortened link record.
// ShortCode, LongURL, CreatedAt and ExpiresAt are immutable after creation;
// ClickCount is mutated only by the atomic increment on a successful redirect
// and mirrors the number of Click rows recorded for this link.
type Link struct {
	ID         uint      `gorm:"primaryKey"`
	ShortCode  string    `gorm:"uniqueIndex;size:16;not null"`
	LongURL    string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null"`
	ClickCount int64     `gorm:"not null;default:0"`
}

// Expired reports whether the link's validity window has passed at the given
// instant. The instant is injected so expiry boundaries are testable without
// wall-clock sleeps.
func (l *Link) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
