package repository

import (
	"sync"

	apperrors "github.com/avikmasanta/urlshortener/internal/errors"
	"github.com/avikmasanta/urlshortener/internal/models"
)

// MemoryStore is an in-memory implementation of both LinkRepository and
// ClickRepository. A single mutex guards the link map and the click ledger so
// that a counter increment and its matching click append are observed
// consistently by readers. Used by tests and store-free deployments.
type MemoryStore struct {
	mu          sync.Mutex
	links       map[string]*models.Link
	clicks      map[uint][]models.Click
	nextLinkID  uint
	nextClickID uint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links:  make(map[string]*models.Link),
		clicks: make(map[uint][]models.Click),
	}
}

// Reserve claims the short code iff it is absent. The mutex makes the
// check-and-insert atomic: exactly one concurrent caller wins.
func (s *MemoryStore) Reserve(link *models.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.links[link.ShortCode]; exists {
		return apperrors.ErrShortCodeTaken
	}
	s.nextLinkID++
	link.ID = s.nextLinkID

	stored := *link
	s.links[link.ShortCode] = &stored
	s.clicks[link.ID] = nil
	return nil
}

// FindByShortCode returns a copy of the record so callers never share
// mutable state with the store.
func (s *MemoryStore) FindByShortCode(shortCode string) (*models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, exists := s.links[shortCode]
	if !exists {
		return nil, apperrors.ErrShortCodeNotFound
	}
	copied := *link
	return &copied, nil
}

// Exists reports whether the short code is reserved.
func (s *MemoryStore) Exists(shortCode string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.links[shortCode]
	return exists, nil
}

// IncrementClicks bumps the cached counter; no-op for unknown codes.
func (s *MemoryStore) IncrementClicks(shortCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if link, exists := s.links[shortCode]; exists {
		link.ClickCount++
	}
	return nil
}

// All returns copies of every stored link.
func (s *MemoryStore) All() ([]models.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := make([]models.Link, 0, len(s.links))
	for _, link := range s.links {
		links = append(links, *link)
	}
	return links, nil
}

// Delete removes a link and its ledger under one lock acquisition, keeping
// the shared-lifetime contract between record and click sequence.
func (s *MemoryStore) Delete(shortCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, exists := s.links[shortCode]
	if !exists {
		return apperrors.ErrShortCodeNotFound
	}
	delete(s.clicks, link.ID)
	delete(s.links, shortCode)
	return nil
}

// Append adds a click to the link's sequence, creating it on first use.
func (s *MemoryStore) Append(click *models.Click) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextClickID++
	click.ID = s.nextClickID
	s.clicks[click.LinkID] = append(s.clicks[click.LinkID], *click)
	return nil
}

// ListByLinkID returns a copy of the link's click sequence in insertion order.
func (s *MemoryStore) ListByLinkID(linkID uint) ([]models.Click, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clicks := make([]models.Click, len(s.clicks[linkID]))
	copy(clicks, s.clicks[linkID])
	return clicks, nil
}

// CountByLinkID returns the length of the link's click sequence.
func (s *MemoryStore) CountByLinkID(linkID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.clicks[linkID])), nil
}

var (
	_ LinkRepository  = (*MemoryStore)(nil)
	_ ClickRepository = (*MemoryStore)(nil)
)
