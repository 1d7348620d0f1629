package card

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var updateDetails []string

var updateCmd = &cobra.Command{
	Use:   "update <url-code>",
	Short: "Update a card's contact details",
	Long: `Replaces the card's free-form contact details with the provided
key=value pairs, e.g.:

  tapctl card update 3fa09c21 --set name="Ada Lovelace" --set title="Engineer"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		details := make(map[string]string, len(updateDetails))
		for _, pair := range updateDetails {
			key, value, ok := strings.Cut(pair, "=")
			if !ok || key == "" {
				return fmt.Errorf("invalid --set value %q, expected key=value", pair)
			}
			details[key] = value
		}
		if len(details) == 0 {
			return fmt.Errorf("at least one --set key=value is required")
		}

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
		updated, err := access.EditDetails(ctx, *card, details)
		if err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}

		pterm.Success.Printf("Updated card %s\n", updated.URLCode)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringArrayVar(&updateDetails, "set", nil, "Contact detail as key=value (repeatable)")
}
