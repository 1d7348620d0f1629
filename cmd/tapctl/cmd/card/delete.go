package card

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/pkg/sdk"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <url-code>",
	Short: "Delete a card permanently (admin only)",
	Long: `Deletes the card. This is terminal: the card's url codes stop
resolving and cannot be recovered.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, cfg, err := fetchCard(cmd, args[0])
		if err != nil {
			return err
		}

		if !deleteYes {
			confirmed, err := pterm.DefaultInteractiveConfirm.Show(
				fmt.Sprintf("Delete card %s permanently?", card.URLCode))
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Aborted")
				return nil
			}
		}

		access, err := cfg.Provider.Access(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := callCtx(cmd)
		defer cancel()
		if err := access.Delete(ctx, *card); err != nil {
			if sdk.IsAuthorization(err) {
				return fmt.Errorf("deleting cards requires the admin role")
			}
			return fmt.Errorf("failed to delete card: %w", err)
		}

		pterm.Success.Printf("Card %s deleted\n", card.URLCode)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "Skip the confirmation prompt")
}
