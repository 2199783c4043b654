package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// usageError marks a failure in how jackc was invoked as distinct from a
// failure to compile valid input, so main can map it to a different exit
// code. Only a wrong number of positional arguments to compile and a
// failure to build the logger are wrapped in it; flag-parsing errors and a
// missing or unreadable path are returned unwrapped and exit with 1.
type usageError struct {
	cause error
}

func (e *usageError) Error() string { return e.cause.Error() }
func (e *usageError) Unwrap() error { return e.cause }

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jackc",
		Short:         "jackc compiles Jack source into stack-VM instructions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCompileCmd())
	root.AddCommand(newVersionCmd())
	return root
}
