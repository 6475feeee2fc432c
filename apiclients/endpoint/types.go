package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyBody reports a response without a body where one was expected.
var ErrEmptyBody = errors.New("empty response body")

// Env holds the environment variables passed to an endpoint's container.
type Env map[string]string

// Encode returns the JSON object form of the environment. encoding/json
// writes map keys in sorted order so the output is deterministic. A nil or
// empty Env encodes as "{}".
func (e Env) Encode() (string, error) {
	if len(e) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(e))
	if err != nil {
		return "", fmt.Errorf("env encoding error: %w", err)
	}
	return string(b), nil
}

// Status is the lifecycle state of an endpoint as reported by the API.
type Status string

// Known statuses. The API may report others, which are passed through.
const (
	StatusReady   Status = "ready"
	StatusAbsent  Status = "absent"
	StatusUnknown Status = "unknown"
)

// String returns the status, or "unknown" if no status was reported.
func (s Status) String() string {
	if s == "" {
		return string(StatusUnknown)
	}
	return string(s)
}

// Endpoint is a remotely hosted instance of a container image.
type Endpoint struct {
	Name    string `json:"name"`
	Image   string `json:"image"`
	Command string `json:"command,omitempty"`
	Status  Status `json:"status,omitempty"`
}

// CreateRequest describes a new endpoint.
type CreateRequest struct {
	Image   string
	Env     Env
	Command string
}

// createForm is the form body posted to create an endpoint. The env is
// embedded as a JSON string.
type createForm struct {
	Image   string `url:"image"`
	Env     string `url:"env"`
	Command string `url:"command,omitempty"`
}

// CreateResponse is the body returned for a successfully created endpoint.
type CreateResponse struct {
	RunnerName string `json:"runner-name"`
}

// ListResponse is the body returned by listing endpoints.
type ListResponse struct {
	Endpoints []Endpoint `json:"endpoints"`
}

// StatusResponse is the body returned for a single endpoint's status.
type StatusResponse struct {
	Status Status `json:"status"`
}
