package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/dhamidi/java2objc/translate"
)

// checkOptions rejects long options given without "=value", unless they
// are boolean or counting flags of flags. Unknown "--name=value" options
// pass through and are ignored by the parser.
func checkOptions(flags *pflag.FlagSet, args []string) error {
	for _, arg := range args {
		if arg == "--" {
			return nil
		}
		if !strings.HasPrefix(arg, "--") || strings.Contains(arg, "=") {
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if name == "help" {
			continue
		}
		if flag := flags.Lookup(name); flag != nil && flag.NoOptDefVal != "" {
			continue
		}
		return translate.WithHint(
			translate.Wrapf(translate.ErrPrecondition, "malformed option %s", arg),
			"give options as --name=value",
		)
	}
	return nil
}
