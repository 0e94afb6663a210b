package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/avikmasanta/urlshortener/cmd"
)

// ListCmd is the 'list' command.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all short URLs",
	Long:  `Print a summary of every stored short URL, expired ones included.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		svc, cleanup, err := newService()
		if err != nil {
			log.Fatalf("Failed to initialize service: %v", err)
		}
		defer cleanup()

		summaries, err := svc.ListAll()
		if err != nil {
			log.Fatalf("Failed to list short URLs: %v", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No short URLs stored.")
			return
		}
		for _, s := range summaries {
			fmt.Printf("%s  ->  %s  (clicks: %d, expires: %s)\n",
				s.ShortLink, s.LongURL, s.TotalClicks, s.ExpiresAt.Format("2006-01-02 15:04:05"))
		}
	},
}

func init() {
	cmd.RootCmd.AddCommand(ListCmd)
}
