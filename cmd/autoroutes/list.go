package main

import (
	"fmt"

	"github.com/jackielii/autoroutes"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Build the route registry and print its routes in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			reg, err := buildRegistry(cfg, logger)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), reg.String())
			return nil
		},
	}
}

func newEntriesCmd(opts *options) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Print the entry point map of the route tree as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			if pattern == "" {
				pattern = cfg.Routes.EntriesPattern
			}
			entries, err := autoroutes.BuildEntryPoints(cfg.Routes.Root, pattern)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(entries)
		},
	}
	cmd.Flags().StringVar(&pattern, "entries", "", "entry file pattern, relative to root")
	return cmd
}
