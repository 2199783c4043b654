package main

import (
	"runtime"

	"github.com/libklein/jackc/internal/driver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCompileCmd() *cobra.Command {
	var (
		jobs    int
		verbose bool
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "compile <path>",
		Short: "Compile a .jack file or a directory of .jack files to VM code",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{cause: cobra.ExactArgs(1)(cmd, args)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(verbose)
			if err != nil {
				return &usageError{cause: err}
			}
			defer logger.Sync() //nolint:errcheck // best-effort flush on exit

			return driver.CompileAll(cmd.Context(), args[0], driver.Options{
				Jobs:   jobs,
				OutDir: outDir,
			}, logger.Sugar())
		},
	}

	cmd.Flags().IntVar(&jobs, "jobs", runtime.GOMAXPROCS(0), "maximum number of classes to compile concurrently")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	cmd.Flags().StringVar(&outDir, "out", "", "write every .vm file into this directory instead of beside its source")

	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
