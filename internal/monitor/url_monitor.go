package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/avikmasanta/urlshortener/internal/repository"
)

// URLMonitor periodically checks that the long URLs behind unexpired short
// links are still reachable, and logs transitions between reachable and
// unreachable. It is read-only with respect to the store: it never expires,
// deletes or otherwise mutates link records.
type URLMonitor struct {
	linkRepo    repository.LinkRepository
	interval    time.Duration
	knownStates map[uint]bool // previous reachability per link ID
	mu          sync.Mutex    // protects knownStates
	httpClient  *http.Client
	now         func() time.Time
}

// NewURLMonitor creates a monitor that checks every interval.
func NewURLMonitor(linkRepo repository.LinkRepository, interval time.Duration) *URLMonitor {
	return &URLMonitor{
		linkRepo:    linkRepo,
		interval:    interval,
		knownStates: make(map[uint]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		now:         time.Now,
	}
}

// Start runs the monitoring loop. It blocks until the context is canceled,
// so callers run it in its own goroutine.
func (m *URLMonitor) Start(ctx context.Context) {
	log.Printf("[MONITOR] Starting URL monitor with interval of %v...", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Immediate check on startup before the first tick.
	m.checkURLs()

	for {
		select {
		case <-ctx.Done():
			log.Println("[MONITOR] URL monitor stopped.")
			return
		case <-ticker.C:
			m.checkURLs()
		}
	}
}

// checkURLs probes every unexpired link and logs state transitions.
func (m *URLMonitor) checkURLs() {
	log.Println("[MONITOR] Starting URL status verification...")

	links, err := m.linkRepo.All()
	if err != nil {
		log.Printf("[MONITOR] ERROR retrieving links for monitoring: %v", err)
		return
	}

	now := m.now()
	for _, link := range links {
		// Expired links are dead entries; probing their targets is wasted work.
		if link.Expired(now) {
			continue
		}

		currentState := m.isURLAccessible(link.LongURL)

		m.mu.Lock()
		previousState, seen := m.knownStates[link.ID]
		m.knownStates[link.ID] = currentState
		m.mu.Unlock()

		if !seen {
			log.Printf("[MONITOR] Initial state for link %s (%s): %s",
				link.ShortCode, link.LongURL, formatState(currentState))
			continue
		}

		if currentState != previousState {
			log.Printf("[NOTIFICATION] Link %s (%s) changed from %s to %s!",
				link.ShortCode, link.LongURL, formatState(previousState), formatState(currentState))
		}
	}
	log.Println("[MONITOR] URL status verification completed.")
}

// isURLAccessible performs an HTTP HEAD request to check if a URL responds.
// 2xx and 3xx count as reachable.
func (m *URLMonitor) isURLAccessible(url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		log.Printf("[MONITOR] Error creating request for URL '%s': %v", url, err)
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Printf("[MONITOR] Error accessing URL '%s': %v", url, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}
