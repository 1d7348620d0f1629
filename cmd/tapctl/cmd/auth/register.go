package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/config"
	"github.com/tapcard/tapcard/pkg/sdk"
)

var (
	registerUsername string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if registerUsername == "" || registerEmail == "" || registerPassword == "" {
			return fmt.Errorf("--username, --email and --password are required")
		}

		session, err := cfg.Provider.Session(cmd.Context())
		if err != nil {
			return err
		}
		user, err := session.Register(cmd.Context(), sdk.RegisterInput{
			Username: registerUsername,
			Email:    registerEmail,
			Password: registerPassword,
		})
		if err != nil {
			if sdk.IsKind(err, sdk.KindInvalidCredentials) {
				return fmt.Errorf("registration rejected: %w", err)
			}
			return err
		}

		pterm.Success.Printf("Registered and logged in as %s\n", user.Username)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "Display name for the new account")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password")
}
