package user

import (
	"github.com/spf13/cobra"
)

// UserCmd is the parent command for user roster operations.
var UserCmd = &cobra.Command{
	Use:   "user",
	Short: "Inspect the user roster",
}

func init() {
	UserCmd.AddCommand(listCmd)
}
