package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lujaina-E/SENG533-Final-Project/pkg/schema"
)

func newSchemasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the supported input schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range schema.List() {
				s, err := schema.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s aggregate row %q\n", name, s.AggregateName)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "loadsummary version %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
