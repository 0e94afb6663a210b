package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/avikmasanta/urlshortener/internal/errors"
	"github.com/avikmasanta/urlshortener/internal/services"
)

// SetupRoutes configures all Gin API routes and injects the shortener service.
// The route shape follows the public contract: short URLs live at the root
// (e.g. localhost:8080/abc123) while management endpoints sit under
// /shorturls.
func SetupRoutes(router *gin.Engine, shortener *services.ShortenerService) {
	// Health check, used by load balancers and monitoring systems.
	router.GET("/health", HealthCheckHandler)

	// Management endpoints.
	router.POST("/shorturls", CreateShortURLHandler(shortener))
	router.GET("/shorturls", ListShortURLsHandler(shortener))
	router.GET("/shorturls/:shortCode", GetStatsHandler(shortener))

	// Redirection route at root level; this is the link visitors follow.
	router.GET("/:shortCode", RedirectHandler(shortener))
}

// HealthCheckHandler handles the /health route to verify service status.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateShortURLRequest is the JSON body for creating a short URL.
// validity is in minutes; omitting it applies the service default, while an
// explicit non-positive value is rejected. shortcode requests a custom code.
type CreateShortURLRequest struct {
	URL       string `json:"url"`
	Validity  *int   `json:"validity"`
	ShortCode string `json:"shortcode"`
}

// clickView is the wire shape of one recorded click.
type clickView struct {
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	Location  string    `json:"location"`
}

// CreateShortURLHandler handles POST /shorturls.
func CreateShortURLHandler(shortener *services.ShortenerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateShortURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}

		link, err := shortener.CreateLink(services.CreateRequest{
			LongURL:         req.URL,
			ValidityMinutes: req.Validity,
			ShortCode:       req.ShortCode,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"shortLink": shortener.ShortLink(link.ShortCode),
			"expiry":    link.ExpiresAt,
		})
	}
}

// RedirectHandler handles GET /:shortCode: it resolves the code, lets the
// service record the click, and redirects the visitor to the original URL.
func RedirectHandler(shortener *services.ShortenerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		shortCode := c.Param("shortCode")

		// Best-effort request metadata; the service applies sentinels when
		// these are empty.
		referrer := c.GetHeader("Referer")
		source := c.GetHeader("X-Forwarded-For")
		if source == "" {
			source = c.ClientIP()
		}

		target, err := shortener.Resolve(shortCode, referrer, source)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Redirect(http.StatusFound, target)
	}
}

// GetStatsHandler handles GET /shorturls/:shortCode. Stats are served for
// expired links too; only redirection is gated on the validity window.
func GetStatsHandler(shortener *services.ShortenerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		shortCode := c.Param("shortCode")

		stats, err := shortener.GetStats(shortCode)
		if err != nil {
			respondError(c, err)
			return
		}

		clicks := make([]clickView, 0, len(stats.Clicks))
		for _, click := range stats.Clicks {
			clicks = append(clicks, clickView{
				Timestamp: click.Timestamp,
				Referrer:  click.Referrer,
				Location:  click.SourceAddress,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"shortcode":   stats.Link.ShortCode,
			"originalUrl": stats.Link.LongURL,
			"createdAt":   stats.Link.CreatedAt,
			"expiry":      stats.Link.ExpiresAt,
			"totalClicks": stats.TotalClicks,
			"clicks":      clicks,
		})
	}
}

// ListShortURLsHandler handles GET /shorturls, returning a summary per link
// without per-click detail.
func ListShortURLsHandler(shortener *services.ShortenerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := shortener.ListAll()
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]gin.H, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, gin.H{
				"shortcode":   s.ShortCode,
				"originalUrl": s.LongURL,
				"shortLink":   s.ShortLink,
				"createdAt":   s.CreatedAt,
				"expiry":      s.ExpiresAt,
				"totalClicks": s.TotalClicks,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

// respondError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is an internal error and gets logged.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL format"})
	case errors.Is(err, apperrors.ErrInvalidValidity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validity must be a positive number"})
	case errors.Is(err, apperrors.ErrInvalidShortCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shortcode format"})
	case errors.Is(err, apperrors.ErrShortCodeTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Shortcode already exists"})
	case errors.Is(err, apperrors.ErrCodeGenerationExhausted):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to generate unique short code. Please try again later."})
	case errors.Is(err, apperrors.ErrShortCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Short URL not found"})
	case errors.Is(err, apperrors.ErrLinkExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Short URL has expired"})
	default:
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
