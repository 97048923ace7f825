package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/driftwm/driftwm/internal/ipc"
)

func printSessionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  driftwm session save [--path FILE]")
	fmt.Fprintln(w, "  driftwm session restore [--path FILE]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Without --path the daemon uses its configured session file.")
}

func runSession(args []string) int {
	if len(args) == 0 {
		printSessionUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "save":
		return runSessionOp("save", args[1:], func(c *ipc.Client, path string) error {
			return c.SaveSession(path)
		})
	case "restore", "load":
		return runSessionOp("restore", args[1:], func(c *ipc.Client, path string) error {
			return c.RestoreSession(path)
		})
	case "help", "-h", "--help":
		printSessionUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown session subcommand: %s\n\n", args[0])
		printSessionUsage(os.Stderr)
		return 2
	}
}

func runSessionOp(name string, args []string, op func(*ipc.Client, string) error) int {
	fs := flag.NewFlagSet("session "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "session file (default: daemon's configured path)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: driftwm session %s [--path FILE]\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 2
	}
	if err := op(ipc.NewClient(), *path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
