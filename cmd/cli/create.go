package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/avikmasanta/urlshortener/cmd"
	"github.com/avikmasanta/urlshortener/internal/services"
)

var (
	createURLFlag      string
	createCodeFlag     string
	createValidityFlag int
)

// CreateCmd is the 'create' command.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a short URL from a long URL.",
	Long: `Shorten a long URL and print the generated short code.

Examples:
  urlshortener create --url="https://www.google.com/search?q=go+lang"
  urlshortener create --url="https://example.com" --code=my-code --validity=60`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		svc, cleanup, err := newService()
		if err != nil {
			log.Fatalf("Failed to initialize service: %v", err)
		}
		defer cleanup()

		req := services.CreateRequest{
			LongURL:   createURLFlag,
			ShortCode: createCodeFlag,
		}
		// Only an explicitly supplied validity overrides the default window.
		if cobraCmd.Flags().Changed("validity") {
			req.ValidityMinutes = &createValidityFlag
		}

		link, err := svc.CreateLink(req)
		if err != nil {
			log.Fatalf("Failed to create short link: %v", err)
		}

		fmt.Printf("Short URL created successfully:\n")
		fmt.Printf("Code: %s\n", link.ShortCode)
		fmt.Printf("Full URL: %s\n", svc.ShortLink(link.ShortCode))
		fmt.Printf("Expires at: %s\n", link.ExpiresAt.Format("2006-01-02 15:04:05"))
	},
}

func init() {
	CreateCmd.Flags().StringVar(&createURLFlag, "url", "", "The long URL to shorten")
	CreateCmd.Flags().StringVar(&createCodeFlag, "code", "", "Optional custom short code")
	CreateCmd.Flags().IntVar(&createValidityFlag, "validity", 0, "Validity window in minutes (default 30)")
	CreateCmd.MarkFlagRequired("url")

	cmd.RootCmd.AddCommand(CreateCmd)
}
