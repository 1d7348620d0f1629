package card

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/pkg/sdk"
)

var reassignCmd = &cobra.Command{
	Use:   "reassign <url-code> <user-id>",
	Short: "Reassign a card to another user (admin only)",
	Long: `Moves the card to the given user. Use "tapctl user list" to find the
ids of users eligible to hold a card.`,
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
		updated, err := access.Reassign(ctx, *card, args[1])
		if err != nil {
			if sdk.IsAuthorization(err) {
				return fmt.Errorf("reassigning cards requires the admin role")
			}
			return fmt.Errorf("failed to reassign card: %w", err)
		}

		pterm.Success.Printf("Card %s assigned to %s\n", updated.URLCode, updated.AssignedTo)
		return nil
	},
}
