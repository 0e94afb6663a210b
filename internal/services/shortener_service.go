// Package services contains the business logic layer for the URL shortener application.
package services

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	apperrors "github.com/avikmasanta/urlshortener/internal/errors"
	"github.com/avikmasanta/urlshortener/internal/generator"
	"github.com/avikmasanta/urlshortener/internal/logging"
	"github.com/avikmasanta/urlshortener/internal/models"
	"github.com/avikmasanta/urlshortener/internal/repository"
)

const (
	// DefaultValidityMinutes is the validity window applied when the caller
	// omits one.
	DefaultValidityMinutes = 30

	// MaxGenerateAttempts bounds the generate-and-reserve loop for
	// auto-generated codes. With 64^6 possible codes this limit is
	// effectively unreachable, but it turns the retry into a defined
	// terminal state instead of an open-ended loop.
	MaxGenerateAttempts = 5
)

// component tag attached to every structured event this package emits.
const component = "service"

// ShortenerService orchestrates creation, redirect resolution and stats
// assembly. It is the only entry point external collaborators call.
type ShortenerService struct {
	linkRepo        repository.LinkRepository
	clickRepo       repository.ClickRepository
	gen             generator.Generator
	events          logging.EventLogger
	baseURL         string
	defaultValidity int
	maxAttempts     int
	now             func() time.Time // injectable for deterministic expiry tests
}

// NewShortenerService creates a service over the given store, ledger and
// generator. A nil event logger disables remote diagnostics.
func NewShortenerService(
	linkRepo repository.LinkRepository,
	clickRepo repository.ClickRepository,
	gen generator.Generator,
	events logging.EventLogger,
	baseURL string,
) *ShortenerService {
	if events == nil {
		events = logging.NopLogger{}
	}
	return &ShortenerService{
		linkRepo:        linkRepo,
		clickRepo:       clickRepo,
		gen:             gen,
		events:          events,
		baseURL:         baseURL,
		defaultValidity: DefaultValidityMinutes,
		maxAttempts:     MaxGenerateAttempts,
		now:             time.Now,
	}
}

// CreateRequest is the input for shortening a URL.
type CreateRequest struct {
	LongURL         string
	ValidityMinutes *int   // nil applies DefaultValidityMinutes
	ShortCode       string // empty means auto-generate
}

// LinkStats is the analytics view for one short code, composed from the link
// record and its full click history.
type LinkStats struct {
	Link        *models.Link
	TotalClicks int64
	Clicks      []models.Click
}

// LinkSummary is the per-link enumeration view, without per-click detail.
type LinkSummary struct {
	ShortCode   string
	LongURL     string
	ShortLink   string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	TotalClicks int64
}

// ShortLink returns the public short link for a code.
func (s *ShortenerService) ShortLink(shortCode string) string {
	return s.baseURL + "/" + shortCode
}

// CreateLink validates the request, claims a short code and stores the link.
//
// A caller-supplied code is a hard request: it is reserved exactly once and a
// collision surfaces as ErrShortCodeTaken. Auto-generated codes retry inside
// a bounded loop, failing with ErrCodeGenerationExhausted when the limit is
// reached.
func (s *ShortenerService) CreateLink(req CreateRequest) (*models.Link, error) {
	s.events.Log(logging.LevelInfo, component, "received request to create short URL")

	if err := validateURL(req.LongURL); err != nil {
		s.events.Log(logging.LevelError, component, "invalid URL provided")
		return nil, err
	}

	validity := s.defaultValidity
	if req.ValidityMinutes != nil {
		if *req.ValidityMinutes <= 0 {
			s.events.Log(logging.LevelError, component, "invalid validity period")
			return nil, apperrors.ErrInvalidValidity
		}
		validity = *req.ValidityMinutes
	}

	now := s.now()
	link := &models.Link{
		LongURL:   req.LongURL,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(validity) * time.Minute),
	}

	if req.ShortCode != "" {
		if !generator.ValidCode(req.ShortCode) {
			s.events.Log(logging.LevelError, component, "invalid custom shortcode")
			return nil, apperrors.ErrInvalidShortCode
		}
		link.ShortCode = req.ShortCode
		if err := s.linkRepo.Reserve(link); err != nil {
			if errors.Is(err, apperrors.ErrShortCodeTaken) {
				s.events.Log(logging.LevelWarn, component, "shortcode collision detected")
			}
			return nil, err
		}
	} else {
		if err := s.reserveGenerated(link); err != nil {
			return nil, err
		}
	}

	s.events.Log(logging.LevelInfo, component, fmt.Sprintf("short URL created: %s", s.ShortLink(link.ShortCode)))
	return link, nil
}

// reserveGenerated runs the bounded generate-and-reserve loop. Generated-code
// collisions are retried silently with a fresh candidate; user-chosen codes
// never reach this path.
func (s *ShortenerService) reserveGenerated(link *models.Link) error {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.gen.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate short code: %w", err)
		}

		link.ShortCode = code
		err = s.linkRepo.Reserve(link)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrShortCodeTaken) {
			return err
		}
		log.Printf("Short code %q already exists, retrying generation (%d/%d)...", code, attempt, s.maxAttempts)
	}

	s.events.Log(logging.LevelError, component, "exhausted attempts to generate unique shortcode")
	return apperrors.ErrCodeGenerationExhausted
}

// Resolve looks up a short code, enforces its validity window and records the
// click. The increment and the ledger append happen together on the success
// path only: an expired link is a read-only dead entry and never mutates.
// Returns the original URL for the caller to redirect to.
func (s *ShortenerService) Resolve(shortCode, referrer, sourceAddress string) (string, error) {
	s.events.Log(logging.LevelInfo, component, fmt.Sprintf("redirect request for shortcode: %s", shortCode))

	link, err := s.linkRepo.FindByShortCode(shortCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrShortCodeNotFound) {
			s.events.Log(logging.LevelError, component, fmt.Sprintf("shortcode not found: %s", shortCode))
		}
		return "", err
	}

	if link.Expired(s.now()) {
		s.events.Log(logging.LevelWarn, component, fmt.Sprintf("expired shortcode accessed: %s", shortCode))
		return "", apperrors.ErrLinkExpired
	}

	if referrer == "" {
		referrer = models.ReferrerDirect
	}
	if sourceAddress == "" {
		sourceAddress = models.SourceUnknown
	}

	if err := s.linkRepo.IncrementClicks(shortCode); err != nil {
		return "", fmt.Errorf("failed to count click for %q: %w", shortCode, err)
	}
	click := &models.Click{
		LinkID:        link.ID,
		Timestamp:     s.now(),
		Referrer:      referrer,
		SourceAddress: sourceAddress,
	}
	if err := s.clickRepo.Append(click); err != nil {
		return "", apperrors.ErrClickRecordingFailed{ShortCode: shortCode, Reason: err.Error()}
	}

	s.events.Log(logging.LevelInfo, component, fmt.Sprintf("redirecting to: %s", link.LongURL))
	return link.LongURL, nil
}

// GetStats assembles the analytics view for a short code. It is a pure read:
// no expiry check, no side effects. Expired links remain queryable because
// analytics outlive validity.
func (s *ShortenerService) GetStats(shortCode string) (*LinkStats, error) {
	s.events.Log(logging.LevelInfo, component, fmt.Sprintf("statistics request for shortcode: %s", shortCode))

	link, err := s.linkRepo.FindByShortCode(shortCode)
	if err != nil {
		return nil, err
	}

	clicks, err := s.clickRepo.ListByLinkID(link.ID)
	if err != nil {
		return nil, err
	}
	totalClicks, err := s.clickRepo.CountByLinkID(link.ID)
	if err != nil {
		return nil, err
	}

	return &LinkStats{
		Link:        link,
		TotalClicks: totalClicks,
		Clicks:      clicks,
	}, nil
}

// ListAll returns a summary for every stored link, expired ones included.
// Ordering reflects store contents at call time and is not guaranteed stable
// across store implementations.
func (s *ShortenerService) ListAll() ([]LinkSummary, error) {
	links, err := s.linkRepo.All()
	if err != nil {
		return nil, err
	}

	summaries := make([]LinkSummary, 0, len(links))
	for _, link := range links {
		summaries = append(summaries, LinkSummary{
			ShortCode:   link.ShortCode,
			LongURL:     link.LongURL,
			ShortLink:   s.ShortLink(link.ShortCode),
			CreatedAt:   link.CreatedAt,
			ExpiresAt:   link.ExpiresAt,
			TotalClicks: link.ClickCount,
		})
	}
	return summaries, nil
}

// Purge removes a link and its click history atomically. Not exposed over
// HTTP; operators reach it through the CLI.
func (s *ShortenerService) Purge(shortCode string) error {
	if err := s.linkRepo.Delete(shortCode); err != nil {
		return err
	}
	s.events.Log(logging.LevelInfo, component, fmt.Sprintf("purged shortcode: %s", shortCode))
	return nil
}

// validateURL requires an absolute http(s) URL with a host.
func validateURL(raw string) error {
	if raw == "" {
		return apperrors.ErrInvalidURL
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return apperrors.ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return apperrors.ErrInvalidURL
	}
	if parsed.Host == "" {
		return apperrors.ErrInvalidURL
	}
	return nil
}
