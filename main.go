package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemats/schemats/config"
)

const version = "0.1.0"

func main() {
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "schemats",
		Short: "Generate TypeScript declarations from schema descriptions",
		Long: `Generate TypeScript declarations from schema descriptions.

Reads the schemats.yml config in the working directory, analyses every
schema description it points at and writes one declaration file per source,
an index file per output directory, and the imports between them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default: schemats.yml in the working directory)")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check if generated declarations are up to date",
		Long: `Generate declarations in memory and compare them with the files on disk.
Nothing is written. Exits with an error when any file is missing or stale.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := opts
			opts.check = true
			opts.out = cmd.OutOrStdout()
			return run(cmd.Context(), opts)
		},
	}

	configSchemaCmd := &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON Schema of the config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := config.JSONSchema()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(schema)
			return err
		},
	}

	rootCmd.AddCommand(checkCmd, configSchemaCmd)
	return rootCmd
}
