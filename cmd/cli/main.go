package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:          "medghor",
		Short:        "Medghor focus item sheet tools",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", os.Getenv("MEDGHOR_CONFIG"), "path to a TOML config file")

	root.AddCommand(NewRenderCmd(logger))
	root.AddCommand(NewMigrateCmd(logger))
	root.AddCommand(NewCreateAdminCmd(logger))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
