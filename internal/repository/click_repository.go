package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/avikmasanta/urlshortener/internal/models"
)

// ClickRepository is the append-only ledger of redirect events.
// Entries are appended in arrival order and never reordered or deleted,
// except through LinkRepository.Delete which purges a link and its ledger
// together.
type ClickRepository interface {
	// Append adds one click to the link's sequence.
	Append(click *models.Click) error

	// ListByLinkID returns the link's clicks in insertion order,
	// empty if none were recorded.
	ListByLinkID(linkID uint) ([]models.Click, error)

	// CountByLinkID returns the authoritative number of recorded clicks.
	CountByLinkID(linkID uint) (int64, error)
}

// GormClickRepository is the ClickRepository implementation backed by GORM.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates and returns a new GormClickRepository.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// Append inserts a new click record.
func (r *GormClickRepository) Append(click *models.Click) error {
	if err := r.db.Create(click).Error; err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

// ListByLinkID retrieves the click history for a link, oldest first.
func (r *GormClickRepository) ListByLinkID(linkID uint) ([]models.Click, error) {
	var clicks []models.Click
	if err := r.db.Where("link_id = ?", linkID).Order("id asc").Find(&clicks).Error; err != nil {
		return nil, fmt.Errorf("failed to list clicks for link ID %d: %w", linkID, err)
	}
	return clicks, nil
}

// CountByLinkID counts the total number of clicks for a link.
func (r *GormClickRepository) CountByLinkID(linkID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Click{}).Where("link_id = ?", linkID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count clicks for link ID %d: %w", linkID, err)
	}
	return count, nil
}

var _ ClickRepository = (*GormClickRepository)(nil)
