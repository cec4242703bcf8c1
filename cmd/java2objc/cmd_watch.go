package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/java2objc/translate"
	"github.com/dhamidi/java2objc/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Translate the Java files below dir again whenever one changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			w, err := watch.New(args[0], cfg.Options(), watch.OnBuild(func(r *translate.Report, err error) {
				if r == nil {
					return
				}
				for _, o := range r.Failed() {
					log.Errorf("%s", o.Err)
				}
			}))
			if err != nil {
				return err
			}
			log.Noticef("watching %s", args[0])
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().String("outputdir", ".", "directory receiving the generated .h and .m files")
	cmd.Flags().Int("jobs", 0, "files translated in parallel (default GOMAXPROCS)")

	return cmd
}
