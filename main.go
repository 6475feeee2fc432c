package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rorycl/endpoint/app"
)

// version is reported by --version and in the User-Agent header.
var version = "0.0.1"

func userAgent() string {
	return "hw/" + version
}

// main is the entry point for the application.
// It initializes the core application logic, builds the CLI interface,
// and executes the command provided by the user.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	application := app.New(os.Stdout, os.Stderr, nil)

	code := run(ctx, os.Args, os.Stdout, os.Stderr, application)
	stop()
	os.Exit(code)
}

// run executes the cli with args and returns the process exit code. Errors
// not already shown to the user as warnings are written to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, application Applicator) int {
	cmd := BuildCLI(application)
	cmd.Writer = stdout
	cmd.ErrWriter = stderr

	err := cmd.Run(ctx, splitAttachedValues(args))
	if err == nil {
		return app.ExitOK
	}
	if !app.Reported(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return app.ExitCode(err)
}
