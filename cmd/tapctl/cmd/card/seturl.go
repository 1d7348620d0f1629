package card

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/pkg/sdk"
)

var setURLCmd = &cobra.Command{
	Use:   "set-url <url-code> <new-code>",
	Short: "Assign a custom url code to a card",
	Long: `Gives the card a human-chosen alias. The server-assigned url code
stays valid; the alias must be globally unique.`,
	Args: cobra.ExactArgs(2),
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
		updated, err := access.SetURLCode(ctx, *card, args[1])
		if err != nil {
			if sdk.IsConflict(err) {
				pterm.Warning.Printf("The code %q is already in use; pick a different one.\n", args[1])
				return fmt.Errorf("url code conflict")
			}
			return fmt.Errorf("failed to set url code: %w", err)
		}

		pterm.Success.Printf("Card %s now answers at %s\n", updated.URLCode, updated.CustomURLCode)
		return nil
	},
}
