package auth

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		session, err := cfg.Provider.Session(cmd.Context())
		if err != nil {
			return err
		}

		user, ok := session.CurrentUser()
		if !ok {
			pterm.Info.Println("Not logged in. Run `tapctl auth login`.")
			return nil
		}

		pterm.DefaultSection.Println("Authentication Status")
		pterm.Info.Printf("Logged in as: %s <%s>\n", user.Username, user.Email)
		pterm.Info.Printf("Role: %s\n", user.Role)
		if issued, ok := session.IssuedAt(); ok {
			pterm.Info.Printf("Access token issued at: %s\n", issued.Format(time.RFC1123))
		}
		return nil
	},
}
