package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newModelsCmd lists the model catalog.
func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available AI models",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			models, err := a.client.Models().List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				printJSON(models)
				return nil
			}
			for _, m := range models {
				marker := " "
				if m.HasAccess {
					marker = "*"
				}
				fmt.Printf("%s %-12s %s\n", marker, m.Name, m.Description)
			}
			return nil
		},
	}
}
