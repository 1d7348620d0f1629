package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	authcmd "github.com/tapcard/tapcard/cmd/tapctl/cmd/auth"
	cardcmd "github.com/tapcard/tapcard/cmd/tapctl/cmd/card"
	usercmd "github.com/tapcard/tapcard/cmd/tapctl/cmd/user"
	"github.com/tapcard/tapcard/cmd/tapctl/internal/client"
	"github.com/tapcard/tapcard/cmd/tapctl/internal/config"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "tapctl",
	Short: "tapcard CLI - shared business card management client",
	Long: `tapctl is the command-line interface for tapcard, a shared business
card platform. Use it to authenticate, inspect and manage the cards your
organization issues through unique short url codes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; flags and real env win over it.
		_ = godotenv.Load()

		if serverURL == defaultServerURL {
			if env := os.Getenv("TAPCARD_API_URL"); env != "" {
				serverURL = env
			}
		}

		cfg := &config.GlobalConfig{
			ServerURL: serverURL,
			Provider:  client.NewProvider(serverURL),
		}
		cmd.SetContext(config.InjectConfig(cmd.Context(), cfg))
	},
}

const defaultServerURL = "http://localhost:8080"

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL, "tapcard API server URL (also via TAPCARD_API_URL)")
	rootCmd.AddCommand(authcmd.AuthCmd)
	rootCmd.AddCommand(cardcmd.CardCmd)
	rootCmd.AddCommand(usercmd.UserCmd)
}
