// Package pension connects the hub to the pension clearinghouse. Every data
// query is consent-gated: without a currently valid pension-data consent the
// connector rejects the call before touching the wire.
package pension

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/normalize"
)

// Connector implements connector.PensionSource.
type Connector struct {
	id       domain.ConnectorID
	doer     connector.Doer
	consents connector.ConsentChecker
	cfg      connector.Config
}

// Option configures the connector.
type Option func(*Connector)

// WithDoer injects the HTTP transport; tests stub it.
func WithDoer(doer connector.Doer) Option {
	return func(c *Connector) { c.doer = doer }
}

// New builds an uninitialized clearinghouse connector. The consent checker
// is mandatory; constructing without one is a programming error.
func New(id domain.ConnectorID, consents connector.ConsentChecker, opts ...Option) *Connector {
	if consents == nil {
		panic("pension connector requires a consent checker")
	}
	c := &Connector{id: id, consents: consents}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Connector) Identify() domain.ConnectorMetadata {
	return domain.ConnectorMetadata{
		ID:           c.id,
		SourceName:   "pension clearinghouse",
		Capabilities: []domain.Capability{domain.CapabilityPension},
		Version:      "v2",
	}
}

func (c *Connector) Initialize(_ context.Context, cfg connector.Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("pension connector %s: base URL is required", c.id)
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

// Balances returns all pension accounts for a customer.
func (c *Connector) Balances(ctx context.Context, customer domain.CustomerID) ([]domain.PensionAccount, error) {
	if err := c.gate(ctx, customer); err != nil {
		return nil, err
	}

	var body struct {
		Accounts []normalize.Record `json:"accounts"`
	}
	endpoint := c.cfg.BaseURL + "/v2/accounts?customer=" + url.QueryEscape(customer.String())
	if err := connector.CallJSON(ctx, c.doer, c.id, http.MethodGet, endpoint, c.auth, nil, &body); err != nil {
		return nil, err
	}

	result := normalize.Batch(body.Accounts, normalize.PensionAccount)
	if len(result.Entities) == 0 && len(result.Failures) > 0 {
		return nil, connector.NewError(connector.ErrorInvalidResponse, c.id,
			"no account record normalized cleanly", result.Failures[0].Err)
	}
	return result.Entities, nil
}

// Movements returns the transaction history of one fund account.
func (c *Connector) Movements(ctx context.Context, customer domain.CustomerID, fund domain.FundID) ([]domain.Movement, error) {
	if err := c.gate(ctx, customer); err != nil {
		return nil, err
	}

	var body struct {
		Account normalize.Record `json:"account"`
	}
	endpoint := c.cfg.BaseURL + "/v2/accounts/" + url.PathEscape(string(fund)) +
		"/movements?customer=" + url.QueryEscape(customer.String())
	if err := connector.CallJSON(ctx, c.doer, c.id, http.MethodGet, endpoint, c.auth, nil, &body); err != nil {
		return nil, err
	}

	account, _, err := normalize.PensionAccount(body.Account)
	if err != nil {
		return nil, connector.NewError(connector.ErrorInvalidResponse, c.id, "malformed account record", err)
	}
	return account.Movements, nil
}

// gate rejects the call when the subject has no active pension-data consent.
func (c *Connector) gate(ctx context.Context, customer domain.CustomerID) error {
	if c.doer == nil {
		return connector.ErrNotInitialized
	}
	allowed, err := c.consents.Allowed(ctx, customer, domain.ConsentScopePension)
	if err != nil {
		return connector.NewError(connector.ErrorUnavailable, c.id, "consent lookup failed", err)
	}
	if !allowed {
		return connector.NewError(connector.ErrorAuthFailure, c.id,
			"no active consent for pension data", nil)
	}
	return nil
}

func (c *Connector) auth(req *http.Request) error {
	switch c.cfg.Auth {
	case connector.AuthAPIKey:
		req.Header.Set("X-Api-Key", c.cfg.Secret)
	case connector.AuthBasic:
		req.Header.Set("Authorization", "Basic "+c.cfg.Secret)
	}
	return nil
}
