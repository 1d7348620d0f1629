package auth

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/config"
	"github.com/tapcard/tapcard/pkg/sdk"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with tapcard",
	Long: `Exchanges your email and password for a session token pair.

The token pair is stored under ~/.tapcard (or $TAPCARD_HOME) so the
session survives across invocations; expired access tokens are refreshed
transparently on the next call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		email := loginEmail
		if email == "" {
			var err error
			email, err = pterm.DefaultInteractiveTextInput.Show("Email")
			if err != nil {
				return err
			}
		}
		password := loginPassword
		if password == "" {
			var err error
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
		}

		session, err := cfg.Provider.Session(cmd.Context())
		if err != nil {
			return err
		}
		user, err := session.Login(cmd.Context(), sdk.LoginInput{Email: email, Password: password})
		if err != nil {
			if sdk.IsKind(err, sdk.KindInvalidCredentials) {
				return fmt.Errorf("login rejected: %w", err)
			}
			return err
		}

		pterm.Success.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
}
