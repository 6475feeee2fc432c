package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rorycl/endpoint/app"
	"github.com/rorycl/endpoint/config"
)

// Applicator defines the interface for the core application logic.
// This allows the CLI to be tested independently of the main app implementation.
type Applicator interface {
	Create(ctx context.Context, opts app.CreateOptions) error
	Remove(ctx context.Context, opts app.RemoveOptions) error
	List(ctx context.Context, opts app.ListOptions) error
}

// BuildCLI creates the full CLI command structure for the application.
// It injects the core application logic (the Applicator) into the command actions.
func BuildCLI(application Applicator) *cli.Command {
	// Flags common to all commands.
	apiFlag := &cli.StringFlag{
		Name:    "api",
		Usage:   "endpoint api host name",
		Value:   config.DefaultAPIHost,
		Sources: cli.EnvVars(config.APIHostEnvVars...),
	}

	verboseFlag := &cli.BoolFlag{
		Name:  "verbose",
		Usage: "log requests and responses to stderr",
	}

	authTokenFlag := &cli.StringFlag{
		Name:    "auth-token",
		Usage:   "token authorizing access to your endpoints",
		Value:   config.NoAuthToken,
		Sources: cli.EnvVars(config.AuthTokenEnvVars...),
	}

	createCmd := &cli.Command{
		Name:                      "create",
		Usage:                     "Create an endpoint running a container image",
		ArgsUsage:                 "IMAGE",
		OnUsageError:              usageError,
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			authTokenFlag,
			&cli.StringSliceFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "environment variable for the container as KEY=VALUE (repeatable)",
			},
			&cli.StringFlag{
				Name:    "command",
				Aliases: []string{"c"},
				Usage:   "command overriding the image entrypoint",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() != 1 {
				return app.NewUsageError(fmt.Errorf("create takes exactly one IMAGE argument, got %d", c.NArg()))
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return application.Create(ctx, app.CreateOptions{
				Config:   cfg,
				Image:    c.Args().First(),
				EnvPairs: c.StringSlice("env"),
				Command:  c.String("command"),
			})
		},
	}

	removeCmd := &cli.Command{
		Name:         "remove",
		Aliases:      []string{"rm"},
		Usage:        "Remove an endpoint",
		ArgsUsage:    "NAME",
		OnUsageError: usageError,
		Flags:        []cli.Flag{authTokenFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() != 1 {
				return app.NewUsageError(fmt.Errorf("remove takes exactly one NAME argument, got %d", c.NArg()))
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return application.Remove(ctx, app.RemoveOptions{
				Config: cfg,
				Name:   c.Args().First(),
			})
		},
	}

	lsCmd := &cli.Command{
		Name:         "ls",
		Usage:        "List endpoints and their status",
		OnUsageError: usageError,
		Flags: []cli.Flag{
			authTokenFlag,
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   string(app.FormatText),
				Usage:   "output format: text, json or yaml",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.NArg() != 0 {
				return app.NewUsageError(fmt.Errorf("ls takes no arguments, got %d", c.NArg()))
			}
			format, err := app.ParseFormat(c.String("output"))
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return application.List(ctx, app.ListOptions{
				Config: cfg,
				Format: format,
			})
		},
	}

	// Assemble the root command.
	rootCmd := &cli.Command{
		Name:                      "hw",
		Usage:                     "Manage endpoints running your container images",
		Version:                   version,
		Flags:                     []cli.Flag{apiFlag, verboseFlag},
		OnUsageError:              usageError,
		DisableSliceFlagSeparator: true,
		Commands:                  []*cli.Command{createCmd, removeCmd, lsCmd},
	}

	return rootCmd
}

// loadConfig resolves the configuration from the parsed flags. Flag values
// take precedence over the environment, which takes precedence over the
// defaults.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(c.String("api"), c.String("auth-token"), c.Bool("verbose"))
	if err != nil {
		return nil, app.NewUsageError(err)
	}
	cfg.UserAgent = userAgent()
	return cfg, nil
}

// usageError marks flag parsing failures as usage errors.
func usageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return app.NewUsageError(err)
}

// attachedValueFlags are the short flags whose value may be given in the same
// argument, separated by whitespace, as in "-e TEST=True".
var attachedValueFlags = []string{"-e", "-c"}

// splitAttachedValues rewrites "-e KEY=VALUE" style arguments into a flag
// followed by its value. Arguments after a "--" terminator are left alone.
func splitAttachedValues(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		out = append(out, splitAttachedValue(arg)...)
	}
	return out
}

func splitAttachedValue(arg string) []string {
	for _, flag := range attachedValueFlags {
		rest, ok := strings.CutPrefix(arg, flag)
		if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		return []string{flag, strings.TrimLeft(rest, " \t")}
	}
	return []string{arg}
}
