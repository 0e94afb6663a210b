package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/avikmasanta/urlshortener/internal/errors"
	"github.com/avikmasanta/urlshortener/internal/models"
)

// LinkRepository is the authoritative map from short code to link record.
// It owns uniqueness (Reserve is the single synchronization point for
// concurrent creations) and the cached click counter.
type LinkRepository interface {
	// Reserve atomically inserts the link iff its short code is absent.
	// Exactly one of two concurrent reservations for the same code succeeds;
	// the loser observes apperrors.ErrShortCodeTaken.
	Reserve(link *models.Link) error

	// FindByShortCode returns the record for a code, expired ones included.
	// Returns apperrors.ErrShortCodeNotFound when the code is unknown.
	FindByShortCode(shortCode string) (*models.Link, error)

	// Exists reports whether a short code is currently reserved.
	Exists(shortCode string) (bool, error)

	// IncrementClicks atomically bumps the click counter for a code.
	// A no-op when the code is absent; callers validate existence first.
	IncrementClicks(shortCode string) error

	// All returns every stored link, reflecting store contents at call time.
	All() ([]models.Link, error)

	// Delete removes a link together with its click history in one
	// transaction. Returns apperrors.ErrShortCodeNotFound for unknown codes.
	Delete(shortCode string) error
}

// GormLinkRepository is the LinkRepository implementation backed by GORM.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates and returns a new GormLinkRepository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// Reserve inserts the link, relying on the unique index on short_code to
// arbitrate concurrent reservations.
func (r *GormLinkRepository) Reserve(link *models.Link) error {
	if err := r.db.Create(link).Error; err != nil {
		if isDuplicateKey(err) {
			return apperrors.ErrShortCodeTaken
		}
		return fmt.Errorf("failed to reserve short code %q: %w", link.ShortCode, err)
	}
	return nil
}

// FindByShortCode retrieves a link using its short code.
func (r *GormLinkRepository) FindByShortCode(shortCode string) (*models.Link, error) {
	var link models.Link
	if err := r.db.Where("short_code = ?", shortCode).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrShortCodeNotFound
		}
		return nil, fmt.Errorf("failed to look up short code %q: %w", shortCode, err)
	}
	return &link, nil
}

// Exists checks reservation state without loading the full record.
func (r *GormLinkRepository) Exists(shortCode string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Link{}).Where("short_code = ?", shortCode).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check short code %q: %w", shortCode, err)
	}
	return count > 0, nil
}

// IncrementClicks performs the increment as a single SQL expression so
// concurrent redirects never lose updates.
func (r *GormLinkRepository) IncrementClicks(shortCode string) error {
	err := r.db.Model(&models.Link{}).
		Where("short_code = ?", shortCode).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment clicks for %q: %w", shortCode, err)
	}
	return nil
}

// All retrieves every link from the database.
func (r *GormLinkRepository) All() ([]models.Link, error) {
	var links []models.Link
	if err := r.db.Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve all links: %w", err)
	}
	return links, nil
}

// Delete removes the link and its click rows in one transaction, so a record
// and its ledger always share lifetime.
func (r *GormLinkRepository) Delete(shortCode string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var link models.Link
		if err := tx.Where("short_code = ?", shortCode).First(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrShortCodeNotFound
			}
			return fmt.Errorf("failed to look up short code %q: %w", shortCode, err)
		}
		if err := tx.Where("link_id = ?", link.ID).Delete(&models.Click{}).Error; err != nil {
			return fmt.Errorf("failed to delete clicks for %q: %w", shortCode, err)
		}
		if err := tx.Delete(&link).Error; err != nil {
			return fmt.Errorf("failed to delete link %q: %w", shortCode, err)
		}
		return nil
	})
}

// isDuplicateKey recognizes unique-index violations across driver versions.
// The glebarez driver translates to gorm.ErrDuplicatedKey; the message check
// covers sqlite builds that don't.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ LinkRepository = (*GormLinkRepository)(nil)
