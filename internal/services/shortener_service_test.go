package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/avikmasanta/urlshortener/internal/errors"
	"github.com/avikmasanta/urlshortener/internal/generator"
	"github.com/avikmasanta/urlshortener/internal/models"
	"github.com/avikmasanta/urlshortener/internal/repository"
)

// fakeClock lets tests move time across expiry boundaries without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// stubGenerator returns a scripted sequence of codes, repeating the last one
// once the script runs out.
type stubGenerator struct {
	mu    sync.Mutex
	codes []string
	i     int
}

func (g *stubGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.i < len(g.codes)-1 {
		g.i++
		return g.codes[g.i-1], nil
	}
	return g.codes[len(g.codes)-1], nil
}

func newTestService(gen generator.Generator) (*ShortenerService, *repository.MemoryStore, *fakeClock) {
	store := repository.NewMemoryStore()
	if gen == nil {
		gen = generator.NewRandomGenerator(6)
	}
	svc := NewShortenerService(store, store, gen, nil, "http://localhost:8080")
	clock := newFakeClock(time.Date(2025, 7, 14, 12, 0, 0, 0, time.UTC))
	svc.now = clock.Now
	return svc, store, clock
}

func intPtr(v int) *int { return &v }

func TestCreateLinkRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(nil)

	link, err := svc.CreateLink(CreateRequest{LongURL: "https://example.com/page"})
	require.NoError(t, err)
	assert.Len(t, link.ShortCode, 6)

	target, err := svc.Resolve(link.ShortCode, "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", target)
}

func TestCreateLinkDefaultValidity(t *testing.T) {
	svc, _, clock := newTestService(nil)

	link, err := svc.CreateLink(CreateRequest{LongURL: "https://example.com"})
	require.NoError(t, err)

	assert.Equal(t, clock.Now(), link.CreatedAt)
	assert.Equal(t, clock.Now().Add(30*time.Minute), link.ExpiresAt)
	assert.True(t, link.ExpiresAt.After(link.CreatedAt))
}

func TestCreateLinkInvalidURL(t *testing.T) {
	svc, _, _ := newTestService(nil)

	tests := []struct {
		name string
		url  string
	}{
		{"not a url", "not-a-url"},
		{"empty", ""},
		{"missing scheme", "example.com/page"},
		{"unsupported scheme", "ftp://example.com"},
		{"missing host", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLink(CreateRequest{LongURL: tt.url})
			assert.ErrorIs(t, err, apperrors.ErrInvalidURL)
		})
	}
}

func TestCreateLinkInvalidValidity(t *testing.T) {
	svc, _, _ := newTestService(nil)

	for _, v := range []int{0, -5} {
		_, err := svc.CreateLink(CreateRequest{
			LongURL:         "https://x.com",
			ValidityMinutes: intPtr(v),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidValidity, "validity %d", v)
	}
}

func TestCreateLinkCustomShortCode(t *testing.T) {
	svc, _, _ := newTestService(nil)

	link, err := svc.CreateLink(CreateRequest{
		LongURL:   "https://example.com",
		ShortCode: "my-code",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-code", link.ShortCode)
	assert.Equal(t, "http://localhost:8080/my-code", svc.ShortLink(link.ShortCode))
}

func TestCreateLinkCustomShortCodeCollision(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.CreateLink(CreateRequest{LongURL: "https://first.example.com", ShortCode: "abc123"})
	require.NoError(t, err)

	// A user-chosen code is a hard request: one attempt, no retry.
	_, err = svc.CreateLink(CreateRequest{LongURL: "https://second.example.com", ShortCode: "abc123"})
	assert.ErrorIs(t, err, apperrors.ErrShortCodeTaken)

	// The first registration is untouched by the failed second one.
	target, err := svc.Resolve("abc123", "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://first.example.com", target)
}

func TestCreateLinkInvalidCustomShortCode(t *testing.T) {
	svc, _, _ := newTestService(nil)

	for _, code := range []string{"ab/cd", "with space", "é"} {
		_, err := svc.CreateLink(CreateRequest{LongURL: "https://example.com", ShortCode: code})
		assert.ErrorIs(t, err, apperrors.ErrInvalidShortCode, "code %q", code)
	}
}

func TestCreateLinkRetriesGeneratedCollision(t *testing.T) {
	gen := &stubGenerator{codes: []string{"taken1", "fresh2"}}
	svc, _, _ := newTestService(gen)

	_, err := svc.CreateLink(CreateRequest{LongURL: "https://example.com", ShortCode: "taken1"})
	require.NoError(t, err)

	// Generated-code collisions are retried silently with a new candidate.
	link, err := svc.CreateLink(CreateRequest{LongURL: "https://other.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "fresh2", link.ShortCode)
}

func TestCreateLinkGenerationExhausted(t *testing.T) {
	gen := &stubGenerator{codes: []string{"stuck0"}}
	svc, _, _ := newTestService(gen)

	_, err := svc.CreateLink(CreateRequest{LongURL: "https://example.com", ShortCode: "stuck0"})
	require.NoError(t, err)

	// Every candidate collides, so the bounded loop must terminate with the
	// defined failure instead of spinning.
	_, err = svc.CreateLink(CreateRequest{LongURL: "https://other.example.com"})
	assert.ErrorIs(t, err, apperrors.ErrCodeGenerationExhausted)
}

func TestResolveNotFound(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.Resolve("nosuch", "", "")
	assert.ErrorIs(t, err, apperrors.ErrShortCodeNotFound)
}

func TestResolveExpiryBoundary(t *testing.T) {
	svc, _, clock := newTestService(nil)

	link, err := svc.CreateLink(CreateRequest{
		LongURL:         "https://example.com/page",
		ValidityMinutes: intPtr(1),
	})
	require.NoError(t, err)

	// Just inside the window.
	clock.Advance(time.Minute - time.Second)
	_, err = svc.Resolve(link.ShortCode, "", "")
	require.NoError(t, err)

	// Just past the window.
	clock.Advance(2 * time.Second)
	_, err = svc.Resolve(link.ShortCode, "", "")
	assert.ErrorIs(t, err, apperrors.ErrLinkExpired)

	// The failed resolve must not have recorded anything.
	stats, err := svc.GetStats(link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalClicks)
	assert.Len(t, stats.Clicks, 1)
}

func TestResolveRecordsClicks(t *testing.T) {
	svc, _, _ := newTestService(nil)

	link, err := svc.CreateLink(CreateRequest{LongURL: "https://example.com"})
	require.NoError(t, err)

	const n = 7
	for i := 0; i < n; i++ {
		_, err := svc.Resolve(link.ShortCode, fmt.Sprintf("https://ref.example/%d", i), "203.0.113.9")
		require.NoError(t, err)
	}

	stats, err := svc.GetStats(link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, int64(n), stats.TotalClicks)
	require.Len(t, stats.Clicks, n)
	// Counter and ledger must agree, and ordering is arrival order.
	for i, click := range stats.Clicks {
		assert.Equal(t, fmt.Sprintf("https://ref.example/%d", i), click.Referrer)
		assert.Equal(t, "203.0.113.9", click.SourceAddress)
	}
}

func TestResolveDefaultsClickMetadata(t *testing.T) {
	svc, _, _ := newTestService(nil)

	link, err := svc.CreateLink(CreateRequest{LongURL: "https://example.com"})
	require.NoError(t, err)

	_, err = svc.Resolve(link.ShortCode, "", "")
	require.NoError(t, err)

	stats, err := svc.GetStats(link.ShortCode)
	require.NoError(t, err)
	require.Len(t, stats.Clicks, 1)
	assert.Equal(t, models.ReferrerDirect, stats.Clicks[0].Referrer)
	assert.Equal(t, models.SourceUnknown, stats.Clicks[0].SourceAddress)
}

func TestGetStatsUnknownCode(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.GetStats("nosuch")
	assert.ErrorIs(t, err, apperrors.ErrShortCodeNotFound)
}

// Hammer concurrent creations: every winner must hold a distinct code.
func TestConcurrentCreateUniqueness(t *testing.T) {
	svc, _, _ := newTestService(nil)

	const creators = 50
	var wg sync.WaitGroup
	codes := make(chan string, creators)
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			link, err := svc.CreateLink(CreateRequest{
				LongURL: fmt.Sprintf("https://example.com/page/%d", i),
			})
			if assert.NoError(t, err) {
				codes <- link.ShortCode
			}
		}(i)
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool)
	for code := range codes {
		assert.False(t, seen[code], "code %q reserved twice", code)
		seen[code] = true
	}
	assert.Len(t, seen, creators)
}

func TestListAll(t *testing.T) {
	svc, _, _ := newTestService(nil)

	first, err := svc.CreateLink(CreateRequest{LongURL: "https://a.example.com"})
	require.NoError(t, err)
	_, err = svc.CreateLink(CreateRequest{LongURL: "https://b.example.com"})
	require.NoError(t, err)

	_, err = svc.Resolve(first.ShortCode, "", "")
	require.NoError(t, err)

	summaries, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byCode := make(map[string]LinkSummary)
	for _, s := range summaries {
		byCode[s.ShortCode] = s
	}
	got := byCode[first.ShortCode]
	assert.Equal(t, "https://a.example.com", got.LongURL)
	assert.Equal(t, "http://localhost:8080/"+first.ShortCode, got.ShortLink)
	assert.Equal(t, int64(1), got.TotalClicks)
}

func TestPurgeRemovesLinkAndHistory(t *testing.T) {
	svc, _, _ := newTestService(nil)

	link, err := svc.CreateLink(CreateRequest{LongURL: "https://example.com"})
	require.NoError(t, err)
	_, err = svc.Resolve(link.ShortCode, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Purge(link.ShortCode))

	_, err = svc.GetStats(link.ShortCode)
	assert.ErrorIs(t, err, apperrors.ErrShortCodeNotFound)
	assert.ErrorIs(t, svc.Purge(link.ShortCode), apperrors.ErrShortCodeNotFound)
}

// End-to-end walk of the documented lifecycle: create with one minute of
// validity, resolve once, expire, keep stats.
func TestLinkLifecycleScenario(t *testing.T) {
	svc, _, clock := newTestService(nil)

	link, err := svc.CreateLink(CreateRequest{
		LongURL:         "https://example.com/page",
		ValidityMinutes: intPtr(1),
	})
	require.NoError(t, err)
	assert.Len(t, link.ShortCode, 6)
	assert.Equal(t, clock.Now().Add(time.Minute), link.ExpiresAt)

	target, err := svc.Resolve(link.ShortCode, "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/page", target)

	clock.Advance(61 * time.Second)
	_, err = svc.Resolve(link.ShortCode, "", "")
	assert.ErrorIs(t, err, apperrors.ErrLinkExpired)

	// Analytics outlive validity.
	stats, err := svc.GetStats(link.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalClicks)
	assert.Equal(t, "https://example.com/page", stats.Link.LongURL)
}
