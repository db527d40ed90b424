package commands

import (
	"github.com/spf13/cobra"

	"votekiosk/internal/structures"
)

var flags structures.CliFlags

func Execute() error {
	root := &cobra.Command{
		Use:           "kiosk",
		Short:         "Voting kiosk client",
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "log to stdout as well")

	root.AddCommand(serveCmd(), sessionCmd())
	return root.Execute()
}
