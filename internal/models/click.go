package models

import "time"

// Sentinel values recorded when the request carries no usable metadata.
const (
	ReferrerDirect = "direct"
	SourceUnknown  = "unknown"
)

// Click represents one recorded redirect of a shortened URL.
// Rows are append-only: they are never updated, reordered or deleted except
// when the owning link is purged, which removes both atomically.
type Click struct {
	// ID is the primary key with auto-increment functionality.
	ID uint `gorm:"primaryKey"`

	// LinkID is the foreign key referencing the Link that was clicked.
	// Indexed so per-link listing and counting stay cheap.
	LinkID uint `gorm:"index"`

	// Link establishes the GORM relationship to the Link model.
	Link Link `gorm:"foreignKey:LinkID"`

	// Timestamp records the exact moment when the redirect was served.
	Timestamp time.Time

	// Referrer stores the Referer header of the redirect request,
	// or ReferrerDirect when the visitor arrived without one.
	Referrer string `gorm:"size:255"`

	// SourceAddress stores the best-effort client address (X-Forwarded-For
	// or the peer address), or SourceUnknown when neither is available.
	// size:50 is sufficient for both IPv4 and IPv6 addresses.
	SourceAddress string `gorm:"size:50"`
}
