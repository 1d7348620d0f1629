package card

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var activateCmd = &cobra.Command{
	Use:   "activate <url-code>",
	Short: "Activate a card",
	Long: `Activates the card so its url code resolves publicly. The first
activation stamps the card's start date; later activations leave it as is.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, cfg, err := fetchCard(cmd, args[0])
		if err != nil {
			return err
		}
		access, err := cfg.Provider.Access(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := callCtx(cmd)
		defer cancel()
		updated, err := access.Activate(ctx, *card)
		if err != nil {
			return fmt.Errorf("failed to activate card: %w", err)
		}

		pterm.Success.Printf("Card %s is active\n", updated.URLCode)
		return nil
	},
}
