package card

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/config"
	"github.com/tapcard/tapcard/pkg/sdk"
)

// CardCmd is the parent command for card operations.
var CardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage business cards",
	Long:  `Commands for listing, creating and transitioning business cards.`,
}

func init() {
	CardCmd.AddCommand(listCmd)
	CardCmd.AddCommand(createCmd)
	CardCmd.AddCommand(getCmd)
	CardCmd.AddCommand(updateCmd)
	CardCmd.AddCommand(activateCmd)
	CardCmd.AddCommand(deactivateCmd)
	CardCmd.AddCommand(reassignCmd)
	CardCmd.AddCommand(setURLCmd)
	CardCmd.AddCommand(deleteCmd)
}

func callCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 15*time.Second)
}

// fetchCard resolves a card by url code so transitions can be authorized
// locally against its current assignment.
func fetchCard(cmd *cobra.Command, urlCode string) (*sdk.Card, *config.GlobalConfig, error) {
	cfg := config.MustFromContext(cmd.Context())
	cards, err := cfg.Provider.Cards(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := callCtx(cmd)
	defer cancel()
	card, err := cards.Get(ctx, urlCode)
	if err != nil {
		return nil, nil, err
	}
	return card, cfg, nil
}
