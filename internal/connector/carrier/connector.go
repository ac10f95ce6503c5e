// Package carrier connects the hub to a single insurance carrier's quoting,
// issuance and claims API. Carriers authenticate with short-lived signed
// JWTs minted from the externally supplied secret.
package carrier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/normalize"
)

// tokenLifetime keeps outbound assertions short; carriers reject stale ones.
const tokenLifetime = 2 * time.Minute

// Connector implements connector.CarrierSource.
type Connector struct {
	id      domain.ConnectorID
	carrier domain.CarrierID
	doer    connector.Doer
	cfg     connector.Config
	clock   func() time.Time
}

// Option configures the connector.
type Option func(*Connector)

// WithDoer injects the HTTP transport; tests stub it.
func WithDoer(doer connector.Doer) Option {
	return func(c *Connector) { c.doer = doer }
}

// WithClock injects a clock for token expiry tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Connector) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New builds an uninitialized carrier connector.
func New(id domain.ConnectorID, carrier domain.CarrierID, opts ...Option) *Connector {
	c := &Connector{id: id, carrier: carrier, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Connector) Identify() domain.ConnectorMetadata {
	return domain.ConnectorMetadata{
		ID:           c.id,
		SourceName:   "carrier " + c.carrier.String(),
		Capabilities: []domain.Capability{domain.CapabilityCarrier},
		Version:      "v1",
	}
}

func (c *Connector) Initialize(_ context.Context, cfg connector.Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("carrier connector %s: base URL is required", c.id)
	}
	if cfg.Auth == connector.AuthBearerJWT && cfg.Secret == "" {
		return fmt.Errorf("carrier connector %s: JWT auth requires a signing secret", c.id)
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

// Quote requests a single quote from the carrier.
func (c *Connector) Quote(ctx context.Context, req connector.QuoteRequest) (domain.Quote, error) {
	if c.doer == nil {
		return domain.Quote{}, connector.ErrNotInitialized
	}

	var body struct {
		Quote normalize.Record `json:"quote"`
	}
	if err := connector.CallJSON(ctx, c.doer, c.id, http.MethodPost, c.cfg.BaseURL+"/v1/quotes", c.auth, req, &body); err != nil {
		return domain.Quote{}, err
	}

	quote, _, err := normalize.Quote(c.carrier, body.Quote)
	if err != nil {
		return domain.Quote{}, connector.NewError(connector.ErrorInvalidResponse, c.id, "malformed quote record", err)
	}
	return quote, nil
}

// IssuePolicy binds a previously obtained quote into a policy.
func (c *Connector) IssuePolicy(ctx context.Context, quote domain.Quote, customer domain.CustomerID) (domain.Policy, error) {
	if c.doer == nil {
		return domain.Policy{}, connector.ErrNotInitialized
	}

	payload := struct {
		Quote    domain.Quote      `json:"quote"`
		Customer domain.CustomerID `json:"customer"`
	}{Quote: quote, Customer: customer}

	var body struct {
		Policy normalize.Record `json:"policy"`
	}
	if err := connector.CallJSON(ctx, c.doer, c.id, http.MethodPost, c.cfg.BaseURL+"/v1/policies", c.auth, payload, &body); err != nil {
		return domain.Policy{}, err
	}

	policy, _, err := normalize.Policy(c.carrier, body.Policy)
	if err != nil {
		return domain.Policy{}, connector.NewError(connector.ErrorInvalidResponse, c.id, "malformed policy record", err)
	}
	return policy, nil
}

// ClaimStatus fetches the current state of one claim.
func (c *Connector) ClaimStatus(ctx context.Context, claimID string) (domain.Claim, error) {
	if c.doer == nil {
		return domain.Claim{}, connector.ErrNotInitialized
	}

	var body struct {
		Claim normalize.Record `json:"claim"`
	}
	endpoint := c.cfg.BaseURL + "/v1/claims/" + url.PathEscape(claimID)
	if err := connector.CallJSON(ctx, c.doer, c.id, http.MethodGet, endpoint, c.auth, nil, &body); err != nil {
		return domain.Claim{}, err
	}

	claim, _, err := normalize.Claim(c.carrier, body.Claim)
	if err != nil {
		return domain.Claim{}, connector.NewError(connector.ErrorInvalidResponse, c.id, "malformed claim record", err)
	}
	return claim, nil
}

func (c *Connector) auth(req *http.Request) error {
	switch c.cfg.Auth {
	case connector.AuthBearerJWT:
		token, err := c.mintToken()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	case connector.AuthAPIKey:
		req.Header.Set("X-Api-Key", c.cfg.Secret)
	}
	return nil
}

// mintToken signs a short-lived HS256 assertion identifying the hub to the
// carrier. The secret never leaves this process.
func (c *Connector) mintToken() (string, error) {
	now := c.clock()
	claims := jwt.RegisteredClaims{
		Issuer:    "selai-hub",
		Subject:   c.id.String(),
		Audience:  jwt.ClaimStrings{c.carrier.String()},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign carrier token: %w", err)
	}
	return signed, nil
}
