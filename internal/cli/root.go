package cli

import (
	"context"
	"io"
)

// Execute runs the gitlanes CLI with args, excluding the program name.
// Status output and logs go to stderr; data written to stdout is only ever
// what a command was asked to produce.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SilenceErrors = true
	return root.ExecuteContext(ctx)
}
