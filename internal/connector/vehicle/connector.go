// Package vehicle connects the hub to the national vehicle insurance
// registry. The registry speaks plain JSON over HTTP with an API key.
package vehicle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/normalize"
)

// Connector implements connector.VehicleSource.
type Connector struct {
	id   domain.ConnectorID
	doer connector.Doer
	cfg  connector.Config
}

// Option configures the connector.
type Option func(*Connector)

// WithDoer injects the HTTP transport; tests stub it.
func WithDoer(doer connector.Doer) Option {
	return func(c *Connector) { c.doer = doer }
}

// New builds an uninitialized vehicle registry connector.
func New(id domain.ConnectorID, opts ...Option) *Connector {
	c := &Connector{id: id}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Connector) Identify() domain.ConnectorMetadata {
	return domain.ConnectorMetadata{
		ID:           c.id,
		SourceName:   "national vehicle registry",
		Capabilities: []domain.Capability{domain.CapabilityVehicle},
		Version:      "v1",
	}
}

func (c *Connector) Initialize(_ context.Context, cfg connector.Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("vehicle connector %s: base URL is required", c.id)
	}
	c.cfg = cfg
	if c.doer == nil {
		c.doer = &http.Client{Timeout: cfg.CallTimeout}
	}
	return nil
}

func (c *Connector) Shutdown(context.Context) error {
	c.cfg = connector.Config{}
	return nil
}

func (c *Connector) CheckHealth(ctx context.Context) error {
	if c.doer == nil {
		return connector.ErrNotInitialized
	}
	return connector.CallJSON(ctx, c.doer, c.id, http.MethodGet, c.cfg.BaseURL+"/health", c.auth, nil, nil)
}

// PolicyHistory lists every vehicle policy the registry knows for a customer.
// Malformed rows are skipped, not fatal; a fully unparseable payload is an
// invalid_response.
func (c *Connector) PolicyHistory(ctx context.Context, customer domain.CustomerID) ([]domain.Policy, error) {
	if c.doer == nil {
		return nil, connector.ErrNotInitialized
	}

	var body struct {
		Carrier  string             `json:"carrier"`
		Policies []normalize.Record `json:"policies"`
	}
	endpoint := c.cfg.BaseURL + "/v1/policies?customer=" + url.QueryEscape(customer.String())
	if err := connector.CallJSON(ctx, c.doer, c.id, http.MethodGet, endpoint, c.auth, nil, &body); err != nil {
		return nil, err
	}

	carrier := domain.CarrierID(body.Carrier)
	result := normalize.Batch(body.Policies, func(rec normalize.Record) (domain.Policy, []normalize.Warning, error) {
		return normalize.Policy(carrier, rec)
	})
	if len(result.Entities) == 0 && len(result.Failures) > 0 {
		return nil, connector.NewError(connector.ErrorInvalidResponse, c.id,
			"no policy record normalized cleanly", result.Failures[0].Err)
	}
	return result.Entities, nil
}

// ActiveCoverage returns the vehicle policy currently in force.
func (c *Connector) ActiveCoverage(ctx context.Context, customer domain.CustomerID) (domain.Policy, error) {
	policies, err := c.PolicyHistory(ctx, customer)
	if err != nil {
		return domain.Policy{}, err
	}
	now := time.Now()
	for _, p := range policies {
		if p.IsActive(now) {
			return p, nil
		}
	}
	return domain.Policy{}, connector.ErrNoActiveCoverage
}

func (c *Connector) auth(req *http.Request) error {
	if c.cfg.Auth == connector.AuthAPIKey {
		req.Header.Set("X-Api-Key", c.cfg.Secret)
	}
	return nil
}
