package app

import (
	"fmt"
	"strings"

	"github.com/rorycl/endpoint/apiclients/endpoint"
)

// ParseEnvPairs parses KEY=VALUE pairs into an Env. Each pair is trimmed of
// surrounding whitespace and split on the first "=", so values may contain
// further "=" characters. A later pair replaces an earlier one with the same
// key.
func ParseEnvPairs(pairs []string) (endpoint.Env, error) {
	env := endpoint.Env{}
	for _, pair := range pairs {
		trimmed := strings.TrimSpace(pair)
		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			return nil, NewUsageError(fmt.Errorf("invalid env pair %q: expected KEY=VALUE", pair))
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, NewUsageError(fmt.Errorf("invalid env pair %q: empty key", pair))
		}
		env[key] = value
	}
	return env, nil
}
