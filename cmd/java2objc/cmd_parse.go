package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/java2objc/format"
	"github.com/dhamidi/java2objc/java/parser"
	"github.com/dhamidi/java2objc/translate"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includeComments bool

	cmd := &cobra.Command{
		Use:   "parse <file.java>",
		Short: "Parse a .java file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if err := translate.CheckPath(filename); err != nil {
				return err
			}
			if outputFormat != "json" && outputFormat != "yaml" {
				return translate.Newf("unknown format: %s", outputFormat)
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				return translate.Wrapf(err, "read %s", filename)
			}
			opts := []parser.Option{parser.WithFile(filename)}
			if includeComments {
				opts = append(opts, parser.WithComments())
			}
			node, parseErr := parser.Parse(data, opts...)
			if node == nil {
				return parseErr
			}
			if err := format.NewASTEncoder(cmd.OutOrStdout(), outputFormat).Encode(node); err != nil {
				return translate.Wrap(err, "encode")
			}
			return parseErr
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, yaml)")
	cmd.Flags().BoolVar(&includeComments, "comments", false, "keep comments in the tree")

	return cmd
}
