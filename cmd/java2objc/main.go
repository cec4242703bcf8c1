package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/kutil/util"

	"github.com/dhamidi/java2objc/config"
	"github.com/dhamidi/java2objc/translate"
)

var log = commonlog.GetLogger("java2objc")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// util.Exit runs the exit hooks that flush the buffered log writer.
	if err := execute(ctx, os.Args[1:], os.Stderr); err != nil {
		stop()
		util.Exit(1)
	}
	stop()
	util.Exit(0)
}

// execute runs one invocation with args, excluding the program name.
// Errors are reported on stderr.
func execute(ctx context.Context, args []string, stderr io.Writer) error {
	root := newRootCmd()
	if cmd, _, err := root.Find(args); err == nil && cmd == root {
		flags := pflag.NewFlagSet(root.Name(), pflag.ContinueOnError)
		flags.AddFlagSet(root.Flags())
		flags.AddFlagSet(root.PersistentFlags())
		if err := checkOptions(flags, args); err != nil {
			commonlog.Configure(0, nil)
			log.Error(err.Error())
			fmt.Fprintln(stderr, "Error:", err)
			return err
		}
	}
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
	verbose    int
}

func (a *app) load() (*config.Config, error) {
	return config.Load(a.v, a.configPath)
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:   "java2objc [flags] file.java...",
		Short: "Translate Java classes into Objective-C headers and implementations",
		Args:  cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(a.verbose, nil)
			return config.BindFlags(a.v, cmd.Flags(), "outputdir", "jobs")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Usage()
				return translate.Wrap(translate.ErrPrecondition, "no input files")
			}
			cfg, err := a.load()
			if err != nil {
				return err
			}
			tr := translate.NewTranslator(cfg.Options())
			report, err := tr.Run(cmd.Context(), args)
			if report != nil {
				log.Infof("translated %d of %d files into %s", report.Succeeded(), len(args), tr.OutputDir())
			}
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (default "+config.FileName+" if present)")
	cmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "log more detail; repeat for debug output")
	cmd.Flags().String("outputdir", ".", "directory receiving the generated .h and .m files")
	cmd.Flags().Int("jobs", 0, "files translated in parallel (default GOMAXPROCS)")

	cmd.AddCommand(newModelCmd(a))
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newLSPCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
