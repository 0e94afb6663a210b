package cli

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/avikmasanta/urlshortener/cmd"
	"github.com/avikmasanta/urlshortener/internal/generator"
	"github.com/avikmasanta/urlshortener/internal/repository"
	"github.com/avikmasanta/urlshortener/internal/services"
)

// newService opens the configured SQLite store and builds a shortener
// service for one-shot CLI use. The returned cleanup closes the database
// connection. CLI commands run without the remote event logger.
func newService() (*services.ShortenerService, func(), error) {
	cfg := cmd.Cfg

	db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	cleanup := func() { sqlDB.Close() }

	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickRepository(db)
	gen := generator.NewRandomGenerator(cfg.Shortener.CodeLength)

	return services.NewShortenerService(linkRepo, clickRepo, gen, nil, cfg.Server.BaseURL), cleanup, nil
}
