package card

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <url-code>",
	Short: "Show a single card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, _, err := fetchCard(cmd, args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "ID\t%s\n", card.ID)
		fmt.Fprintf(w, "URL code\t%s\n", card.URLCode)
		if card.CustomURLCode != "" {
			fmt.Fprintf(w, "Custom code\t%s\n", card.CustomURLCode)
		}
		fmt.Fprintf(w, "Active\t%v\n", card.IsActive)
		if card.AssignedTo != "" {
			fmt.Fprintf(w, "Assigned to\t%s\n", card.AssignedTo)
		}
		if card.StartDate != nil {
			fmt.Fprintf(w, "Start date\t%s\n", card.StartDate.Format(time.RFC1123))
		}
		keys := make([]string, 0, len(card.Details))
		for key := range card.Details {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(w, "%s\t%s\n", key, card.Details[key])
		}
		w.Flush()
		return nil
	},
}
