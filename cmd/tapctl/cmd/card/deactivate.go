package card

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <url-code>",
	Short: "Deactivate a card",
	Args:  cobra.ExactArgs(1),
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
		updated, err := access.Deactivate(ctx, *card)
		if err != nil {
			return fmt.Errorf("failed to deactivate card: %w", err)
		}

		pterm.Success.Printf("Card %s is inactive\n", updated.URLCode)
		return nil
	},
}
