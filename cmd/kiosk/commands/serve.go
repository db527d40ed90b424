package commands

import (
	"github.com/spf13/cobra"

	"votekiosk/internal/di"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the kiosk API for the voting screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := di.InitApp(&flags)
			if err != nil {
				return err
			}
			return app.Run()
		},
	}
}
