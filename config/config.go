package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// DefaultAPIHost is the endpoint API host used when none is configured.
const DefaultAPIHost = "hw.sh"

// NoAuthToken is sent when no auth token has been supplied. The API rejects
// it with a 401, which is reported as an authentication failure.
const NoAuthToken = "NONE"

// Environment variables consulted for configuration, in order of
// precedence.
var (
	APIHostEnvVars   = []string{"HW_API", "API"}
	AuthTokenEnvVars = []string{"AUTH_TOKEN"}
)

// Config represents the configuration of a single invocation. It is resolved
// once at startup and not modified afterwards.
type Config struct {
	APIHost   string
	AuthToken string
	Verbose   bool
	UserAgent string
}

// Load builds and validates a Config from the resolved flag values. Empty
// values are replaced with their defaults.
func Load(apiHost, authToken string, verbose bool) (*Config, error) {
	cfg := Config{
		APIHost:   strings.TrimSpace(apiHost),
		AuthToken: authToken,
		Verbose:   verbose,
	}
	if err := validateAndPrepare(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateAndPrepare sets defaults and checks the api host is a bare
// host[:port].
func validateAndPrepare(c *Config) error {
	if c.APIHost == "" {
		c.APIHost = DefaultAPIHost
	}
	if c.AuthToken == "" {
		c.AuthToken = NoAuthToken
	}

	if strings.Contains(c.APIHost, "://") {
		return fmt.Errorf("api host %q must not include a scheme", c.APIHost)
	}
	if strings.ContainsAny(c.APIHost, "/?# ") {
		return fmt.Errorf("api host %q must be a bare host name", c.APIHost)
	}
	host := c.APIHost
	if h, _, err := net.SplitHostPort(c.APIHost); err == nil {
		host = h
	}
	if host == "" {
		return errors.New("api host is missing a host name")
	}
	return nil
}

// RunnerURL is the public url at which the named endpoint is served.
func (c *Config) RunnerURL(name string) string {
	return fmt.Sprintf("http://%s.run.%s", name, c.APIHost)
}
