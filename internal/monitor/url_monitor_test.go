package monitor

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avikmasanta/urlshortener/internal/models"
	"github.com/avikmasanta/urlshortener/internal/repository"
)

func TestMonitorTracksReachabilityTransitions(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	var probes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	store := repository.NewMemoryStore()
	now := time.Now()

	live := &models.Link{
		ShortCode: "live01",
		LongURL:   srv.URL,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, store.Reserve(live))

	// Expired links must never be probed.
	expired := &models.Link{
		ShortCode: "dead01",
		LongURL:   srv.URL,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, store.Reserve(expired))

	m := NewURLMonitor(store, time.Minute)

	m.checkURLs()
	assert.Equal(t, int32(1), probes.Load())
	assert.True(t, m.knownStates[live.ID])
	_, probedExpired := m.knownStates[expired.ID]
	assert.False(t, probedExpired)

	status.Store(http.StatusInternalServerError)
	m.checkURLs()
	assert.False(t, m.knownStates[live.ID])
}
