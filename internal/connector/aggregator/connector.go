// Package aggregator connects the hub to a remote multi-carrier aggregator.
// One upstream call yields a batch of quotes from carriers the aggregator
// fans out to on its side.
package aggregator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/normalize"
)

// Connector implements connector.AggregatorSource.
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

// New builds an uninitialized aggregator connector.
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
		SourceName:   "multi-carrier aggregator",
		Capabilities: []domain.Capability{domain.CapabilityAggregator},
		Version:      "v1",
	}
}

func (c *Connector) Initialize(_ context.Context, cfg connector.Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("aggregator connector %s: base URL is required", c.id)
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

// QuoteAll fans the request out through the aggregator and returns every
// quote that normalizes cleanly. Individual malformed records are dropped;
// only a fully unusable batch surfaces as invalid_response.
func (c *Connector) QuoteAll(ctx context.Context, req connector.QuoteRequest) ([]domain.Quote, error) {
	if c.doer == nil {
		return nil, connector.ErrNotInitialized
	}

	var body struct {
		Quotes []struct {
			Carrier string           `json:"carrier"`
			Quote   normalize.Record `json:"quote"`
		} `json:"quotes"`
	}
	if err := connector.CallJSON(ctx, c.doer, c.id, http.MethodPost, c.cfg.BaseURL+"/v1/quotes/all", c.auth, req, &body); err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(body.Quotes))
	for _, item := range body.Quotes {
		quote, _, err := normalize.Quote(domain.CarrierID(item.Carrier), item.Quote)
		if err != nil {
			continue
		}
		quotes = append(quotes, quote)
	}
	if len(quotes) == 0 && len(body.Quotes) > 0 {
		return nil, connector.NewError(connector.ErrorInvalidResponse, c.id, "every aggregated quote record was malformed", nil)
	}
	return quotes, nil
}

func (c *Connector) auth(req *http.Request) error {
	if c.cfg.Auth == connector.AuthAPIKey {
		req.Header.Set("X-Api-Key", c.cfg.Secret)
	}
	return nil
}
