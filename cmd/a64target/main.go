// Completion: 100% - CLI entry point complete
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xyproto/a64target/subtarget"
)

// main.go - a64target, inspect resolved AArch64 subtargets
//
//	a64target resolve  --cpu cortex-a57 --mattr=+lse,-fuse-aes
//	a64target classify --triple aarch64-linux-gnu --reloc pic counter
//	a64target advise   --cpu apple-a13 --region 200
//	a64target cpus
//	a64target features [--cpu name]

const versionString = "a64target 0.3.0"

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := newTargetOptions()

	cmd := &cobra.Command{
		Use:           "a64target [COMMAND]",
		Short:         "Resolve and inspect AArch64 subtarget capabilities",
		Version:       versionString,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(stderr, opts.verbose || subtarget.VerboseFromEnv())
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	opts.installFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newResolveCommand(opts),
		newClassifyCommand(opts),
		newAdviseCommand(opts),
		newCPUsCommand(),
		newFeaturesCommand(opts),
	)
	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
