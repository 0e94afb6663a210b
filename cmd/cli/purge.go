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

// PurgeCmd is the 'purge' command. A purge removes the link record and its
// click history together; there is no partial deletion.
var PurgeCmd = &cobra.Command{
	Use:   "purge [short-code]",
	Short: "Delete a short URL and its click history",
	Args:  cobra.ExactArgs(1),
	Run: func(cobraCmd *cobra.Command, args []string) {
		shortCode := args[0]

		svc, cleanup, err := newService()
		if err != nil {
			log.Fatalf("Failed to initialize service: %v", err)
		}
		defer cleanup()

		if err := svc.Purge(shortCode); err != nil {
			if errors.Is(err, apperrors.ErrShortCodeNotFound) {
				fmt.Printf("Error: Short code '%s' not found\n", shortCode)
			} else {
				fmt.Printf("Error purging short code: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Short code '%s' and its click history deleted.\n", shortCode)
	},
}

func init() {
	cmd.RootCmd.AddCommand(PurgeCmd)
}
