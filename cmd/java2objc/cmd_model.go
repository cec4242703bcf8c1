package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/java2objc/format"
	"github.com/dhamidi/java2objc/translate"
)

func newModelCmd(a *app) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "model <file.java> [context.java...]",
		Short: "Print the Objective-C type model built for a Java file",
		Long: `Translate one Java file without writing output and print the resulting type.
Further files are only declared, so calls into them resolve to their selectors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cfg, err := a.load()
			if err != nil {
				return err
			}

			tr := translate.NewTranslator(cfg.Options())
			for _, path := range args[1:] {
				src, err := os.ReadFile(path)
				if err != nil {
					return translate.Wrapf(err, "read %s", path)
				}
				if err := tr.DeclareSource(path, src); err != nil {
					log.Warningf("%s: not declared: %s", path, err)
				}
			}
			res, err := tr.TranslateFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return enc.Encode(res.Type)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format ("+strings.Join(format.Names, ", ")+")")

	return cmd
}
