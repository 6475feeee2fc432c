package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rorycl/endpoint/apiclients/endpoint"
	"github.com/rorycl/endpoint/config"
	"github.com/rorycl/endpoint/internal/logging"
)

// CreateOptions are the inputs to the create command.
type CreateOptions struct {
	Config   *config.Config
	Image    string
	EnvPairs []string
	Command  string
}

// RemoveOptions are the inputs to the remove command.
type RemoveOptions struct {
	Config *config.Config
	Name   string
}

// ListOptions are the inputs to the ls command.
type ListOptions struct {
	Config *config.Config
	Format Format
}

// App is the central orchestrator for the cli commands. Each command makes
// its requests through the endpoint API client and translates the responses
// into output and errors.
type App struct {
	stdout     io.Writer
	stderr     io.Writer
	httpClient *http.Client
}

// New creates and returns a new App. Command output is written to stdout and
// diagnostics to stderr. A nil httpClient uses http.DefaultClient.
func New(stdout, stderr io.Writer, httpClient *http.Client) *App {
	return &App{
		stdout:     stdout,
		stderr:     stderr,
		httpClient: httpClient,
	}
}

// setup returns an api client and logger for a single invocation.
func (a *App) setup(cfg *config.Config) (*endpoint.Client, *slog.Logger, error) {
	if cfg == nil {
		return nil, nil, errors.New("no configuration provided")
	}
	logger := logging.New(a.stderr, cfg.Verbose)
	return endpoint.NewClient(cfg.APIHost, cfg.AuthToken, cfg.UserAgent, a.httpClient, logger), logger, nil
}

// Create requests a new endpoint for an image and reports where it will be
// served.
func (a *App) Create(ctx context.Context, opts CreateOptions) error {
	if opts.Image == "" {
		return NewUsageError(errors.New("an IMAGE argument is required"))
	}
	env, err := ParseEnvPairs(opts.EnvPairs)
	if err != nil {
		return err
	}

	client, logger, err := a.setup(opts.Config)
	if err != nil {
		return err
	}
	logger.Debug(fmt.Sprintf("Create: image %s with %d env vars", opts.Image, len(env)))

	resp, err := client.Create(ctx, endpoint.CreateRequest{
		Image:   opts.Image,
		Env:     env,
		Command: opts.Command,
	})
	if err != nil {
		return err
	}

	out := NewOutput(a.stdout)
	switch outcome := Classify(resp.StatusCode); outcome {
	case Unauthenticated:
		out.Warn("Authentication Failed")
		return &StatusError{Op: "create", Outcome: outcome, Code: resp.StatusCode, Reported: true}
	case Exhausted:
		out.Warn("No more endpoints left")
		return &StatusError{Op: "create", Outcome: outcome, Code: resp.StatusCode, Reported: true}
	case Success:
		created, err := resp.DecodeCreated()
		if err != nil {
			return &ParseError{Op: "create", Err: err}
		}
		out.Success(fmt.Sprintf("Will be deployed at %s", opts.Config.RunnerURL(created.RunnerName)))
		out.Println("Give it some time to pull your image")
		return nil
	default:
		return &StatusError{Op: "create", Outcome: Unexpected, Code: resp.StatusCode}
	}
}

// Remove requests deletion of the named endpoint.
func (a *App) Remove(ctx context.Context, opts RemoveOptions) error {
	if opts.Name == "" {
		return NewUsageError(errors.New("a NAME argument is required"))
	}

	client, logger, err := a.setup(opts.Config)
	if err != nil {
		return err
	}
	logger.Debug(fmt.Sprintf("Remove: %s", opts.Name))

	resp, err := client.Delete(ctx, opts.Name)
	if err != nil {
		return err
	}

	out := NewOutput(a.stdout)
	switch outcome := Classify(resp.StatusCode); outcome {
	case Success:
		out.Success(fmt.Sprintf("%s will be deleted", opts.Name))
		return nil
	case NotFound:
		out.Warn("Warning: Resource not found")
		return &StatusError{Op: "remove", Outcome: outcome, Code: resp.StatusCode, Reported: true}
	default:
		return &StatusError{Op: "remove", Outcome: Unexpected, Code: resp.StatusCode}
	}
}

// List reports each endpoint with its public url and current status. The
// status of each endpoint is requested in turn, in the order the api listed
// them.
func (a *App) List(ctx context.Context, opts ListOptions) error {
	client, logger, err := a.setup(opts.Config)
	if err != nil {
		return err
	}

	resp, err := client.List(ctx)
	if err != nil {
		return err
	}

	switch outcome := Classify(resp.StatusCode); outcome {
	case Success:
	case Unauthenticated:
		return &StatusError{Op: "ls", Outcome: outcome, Code: resp.StatusCode}
	default:
		return &StatusError{Op: "ls", Outcome: Unexpected, Code: resp.StatusCode}
	}

	list, err := resp.DecodeList()
	if err != nil {
		return &ParseError{Op: "ls", Err: err}
	}
	logger.Debug(fmt.Sprintf("List: %d endpoints", len(list.Endpoints)))

	rows := make([]EndpointRow, 0, len(list.Endpoints))
	for _, ep := range list.Endpoints {
		status, err := endpointStatus(ctx, client, logger, ep.Name)
		if err != nil {
			return err
		}
		rows = append(rows, EndpointRow{
			Name:   ep.Name,
			Image:  ep.Image,
			URL:    opts.Config.RunnerURL(ep.Name),
			Status: status.String(),
		})
	}

	return NewOutput(a.stdout).Endpoints(opts.Format, rows)
}

// endpointStatus fetches the status of one endpoint. Only transport failures
// are returned as errors; a status that cannot be determined is unknown.
func endpointStatus(ctx context.Context, client *endpoint.Client, logger *slog.Logger, name string) (endpoint.Status, error) {
	resp, err := client.GetStatus(ctx, name)
	if err != nil {
		return "", err
	}
	if outcome := Classify(resp.StatusCode); outcome != Success {
		logger.Warn(fmt.Sprintf("status of %s: %s (status %d)", name, outcome, resp.StatusCode))
		return endpoint.StatusUnknown, nil
	}
	sr, err := resp.DecodeStatus()
	if err != nil {
		logger.Warn(fmt.Sprintf("status of %s: %v", name, err))
		return endpoint.StatusUnknown, nil
	}
	return sr.Status, nil
}
