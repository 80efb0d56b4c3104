package commands

import (
	"errors"
	"fmt"

	"github.com/mosacup/webboard/backend/internal/line"
	"github.com/spf13/cobra"
)

func newRichMenuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "richmenu",
		Short: "Manage the chat bot rich menu",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "setup",
		Short: "Create the rich menu if missing and make it the default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.LineEnabled() {
				return errors.New("line channel credentials are not configured")
			}
			client, err := line.New(cfg)
			if err != nil {
				return err
			}
			id, err := line.ProvisionRichMenu(cmd.Context(), client, cfg.Public.Line.RichMenuName, cfg.Public.Line.RichMenuImage)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})
	return cmd
}
