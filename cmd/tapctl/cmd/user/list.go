package user

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapcard/tapcard/cmd/tapctl/internal/config"
	"github.com/tapcard/tapcard/pkg/sdk"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users eligible to hold a card (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		cards, err := cfg.Provider.Cards(cmd.Context())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		users, err := cards.NonAdminUsers(ctx)
		if err != nil {
			if sdk.IsAuthorization(err) {
				return fmt.Errorf("listing users requires the admin role")
			}
			return fmt.Errorf("failed to list users: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL")
		for _, user := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\n", user.ID, user.Username, user.Email)
		}
		w.Flush()
		return nil
	},
}
