package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ConnectorSpec declares one connector instance to register at startup.
// Secrets never live in the file itself: SecretEnv names the environment
// variable the external credential provider injects the decrypted value
// into.
type ConnectorSpec struct {
	ID          string        `json:"id"`
	Kind        string        `json:"kind"` // vehicle | pension | carrier | aggregator
	Carrier     string        `json:"carrier,omitempty"`
	BaseURL     string        `json:"base_url"`
	Auth        string        `json:"auth"`
	SecretEnv   string        `json:"secret_env,omitempty"`
	CallTimeout time.Duration `json:"call_timeout,omitempty"`
}

// Secret resolves the decrypted credential from the environment.
func (s ConnectorSpec) Secret() string {
	if s.SecretEnv == "" {
		return ""
	}
	return os.Getenv(s.SecretEnv)
}

// LoadConnectors reads the connector declarations from a JSON file. An
// empty path yields an empty set, the hub then starts with no sources.
func LoadConnectors(path string) ([]ConnectorSpec, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read connector config %s: %w", path, err)
	}
	var specs []ConnectorSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("parse connector config %s: %w", path, err)
	}
	for i, s := range specs {
		if s.ID == "" || s.Kind == "" {
			return nil, fmt.Errorf("connector config %s: entry %d missing id or kind", path, i)
		}
	}
	return specs, nil
}
