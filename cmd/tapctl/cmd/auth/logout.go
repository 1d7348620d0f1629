package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from tapcard",
	Long: `Invalidates the session server-side on a best-effort basis and always
clears the locally stored token pair.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		session, err := cfg.Provider.Session(cmd.Context())
		if err != nil {
			return err
		}
		session.Logout(cmd.Context())
		fmt.Println("Logged out successfully")
		return nil
	},
}
