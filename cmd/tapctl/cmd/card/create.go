package card

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/config"
)

var createCount int

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a batch of cards (admin only)",
	Long: `Creates a batch of unassigned, inactive cards. Each card receives a
generated url code; assign and activate them separately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		cards, err := cfg.Provider.Cards(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := callCtx(cmd)
		defer cancel()
		created, err := cards.Create(ctx, createCount)
		if err != nil {
			return fmt.Errorf("failed to create cards: %w", err)
		}

		pterm.Success.Printf("Created %d card(s)\n", len(created))
		printCards(created)
		return nil
	},
}

func init() {
	createCmd.Flags().IntVar(&createCount, "count", 1, "Number of cards to create")
}
