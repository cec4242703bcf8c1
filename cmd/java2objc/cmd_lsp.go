package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/java2objc/lsp"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			server := lsp.NewServer(buildVersion().GitVersion, cfg.TypeMap)
			return server.RunStdio()
		},
	}
}
