package card

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/config"
	"github.com/tapcard/tapcard/pkg/sdk"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List business cards",
	Long: `Lists the cards assigned to you. With --all (admin only) it lists the
whole inventory split into assigned and unassigned views.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		cards, err := cfg.Provider.Cards(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := callCtx(cmd)
		defer cancel()

		if !listAll {
			own, err := cards.ListOwn(ctx)
			if err != nil {
				return fmt.Errorf("failed to list cards: %w", err)
			}
			printCards(own)
			return nil
		}

		all, err := cards.ListAll(ctx)
		if err != nil {
			if sdk.IsAuthorization(err) {
				return fmt.Errorf("--all requires the admin role")
			}
			return fmt.Errorf("failed to list cards: %w", err)
		}
		roster, err := cards.NonAdminUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to load user roster: %w", err)
		}

		part := sdk.Partition(all, roster)
		pterm.DefaultSection.Printf("Assigned (%d)\n", len(part.Assigned))
		printCards(part.Assigned)
		pterm.DefaultSection.Printf("Unassigned (%d)\n", len(part.Unassigned))
		printCards(part.Unassigned)
		return nil
	},
}

func printCards(cards []sdk.Card) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "URL_CODE\tCUSTOM_CODE\tACTIVE\tASSIGNED_TO\tSTART_DATE")
	for _, card := range cards {
		custom := "-"
		if card.CustomURLCode != "" {
			custom = card.CustomURLCode
		}
		assignee := "-"
		if card.AssignedTo != "" {
			assignee = card.AssignedTo
		}
		start := "-"
		if card.StartDate != nil {
			start = card.StartDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\n", card.URLCode, custom, card.IsActive, assignee, start)
	}
	w.Flush()
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "List the full inventory with the assigned/unassigned split (admin only)")
}
