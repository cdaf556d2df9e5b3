package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	cfg := defaultConfig()

	rootCmd := &cobra.Command{
		Use:           "humgraph",
		Short:         "Parse and analyze Humdrum musical score files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFlag == "" {
				return nil
			}
			loaded, err := loadConfig(configFlag)
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newAnalyzeCommand(cfg))
	rootCmd.AddCommand(newJSONCommand())
	rootCmd.AddCommand(newRoundtripCommand())

	return rootCmd
}
