package cli

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/avikmasanta/urlshortener/cmd"
	apperrors "github.com/avikmasanta/urlshortener/internal/errors"
)

// StatsCmd is the 'stats' command.
var StatsCmd = &cobra.Command{
	Use:   "stats [short-code]",
	Short: "Get statistics for a short URL",
	Long:  `Print the link details and click history for the provided short code.`,
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(cobraCmd *cobra.Command, args []string) {
	shortCode := args[0]

	svc, cleanup, err := newService()
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	defer cleanup()

	stats, err := svc.GetStats(shortCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrShortCodeNotFound) {
			fmt.Printf("Error: Short code '%s' not found\n", shortCode)
		} else {
			fmt.Printf("Error retrieving statistics: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Statistics for short code: %s\n", shortCode)
	fmt.Printf("Long URL: %s\n", stats.Link.LongURL)
	fmt.Printf("Created at: %s\n", stats.Link.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Expires at: %s\n", stats.Link.ExpiresAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Total clicks: %d\n", stats.TotalClicks)

	for _, click := range stats.Clicks {
		fmt.Printf("  %s  referrer=%s  source=%s\n",
			click.Timestamp.Format("2006-01-02 15:04:05"), click.Referrer, click.SourceAddress)
	}
}
