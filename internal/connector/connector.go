package connector

import (
	"context"
	"net/http"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// AuthMethod selects how a connector authenticates against its source.
type AuthMethod string

const (
	AuthAPIKey    AuthMethod = "api_key"
	AuthBearerJWT AuthMethod = "bearer_jwt"
	AuthBasic     AuthMethod = "basic"
)

// Config is supplied by the external credential provider at initialization.
// The secret arrives already decrypted and is never persisted by the hub.
type Config struct {
	BaseURL     string
	Auth        AuthMethod
	Secret      string
	CallTimeout time.Duration
}

// Doer abstracts the HTTP transport so tests can stub external sources.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

//go:generate mockgen -source=connector.go -destination=mocks/connector_mock.go -package=mocks Connector,CarrierSource

// Connector is the base contract every data source implements. Capability
// extensions are separate interfaces; a connector advertises which ones it
// implements through Identify().Capabilities, and the registry indexes by
// that declared set rather than by type inspection.
type Connector interface {
	// Identify returns static metadata including the declared capability set.
	Identify() domain.ConnectorMetadata

	// CheckHealth probes the underlying source. The caller bounds the probe
	// with the context deadline.
	CheckHealth(ctx context.Context) error

	// Initialize prepares the connector with externally supplied credentials.
	Initialize(ctx context.Context, cfg Config) error

	// Shutdown releases any held resources.
	Shutdown(ctx context.Context) error
}

// VehicleSource exposes vehicle registry lookups.
type VehicleSource interface {
	Connector

	// PolicyHistory lists all known vehicle policies for a customer.
	PolicyHistory(ctx context.Context, customer domain.CustomerID) ([]domain.Policy, error)

	// ActiveCoverage returns the vehicle policy currently in force, if any.
	ActiveCoverage(ctx context.Context, customer domain.CustomerID) (domain.Policy, error)
}

// PensionSource exposes consent-gated pension clearinghouse queries. Every
// call must be rejected with an auth_failure error when the subject has no
// currently valid pension-data consent.
type PensionSource interface {
	Connector

	Balances(ctx context.Context, customer domain.CustomerID) ([]domain.PensionAccount, error)
	Movements(ctx context.Context, customer domain.CustomerID, fund domain.FundID) ([]domain.Movement, error)
}

// QuoteRequest carries the normalized parameters a carrier needs to quote.
type QuoteRequest struct {
	Type     domain.InsuranceType `json:"type"`
	Customer domain.Customer      `json:"customer"`

	// Coverage parameters, e.g. requested limits per dimension.
	Coverage map[string]float64 `json:"coverage,omitempty"`
}

// CarrierSource exposes a single carrier's quoting, issuance and claims API.
type CarrierSource interface {
	Connector

	Quote(ctx context.Context, req QuoteRequest) (domain.Quote, error)
	IssuePolicy(ctx context.Context, quote domain.Quote, customer domain.CustomerID) (domain.Policy, error)
	ClaimStatus(ctx context.Context, claimID string) (domain.Claim, error)
}

// AggregatorSource exposes a remote multi-carrier aggregator: one call, a
// batch of quotes from carriers the aggregator fans out to on its side.
type AggregatorSource interface {
	Connector

	QuoteAll(ctx context.Context, req QuoteRequest) ([]domain.Quote, error)
}

// ConsentChecker answers whether a subject currently permits a data scope.
// Pension and carrier connectors consult it before touching subject data.
type ConsentChecker interface {
	Allowed(ctx context.Context, subject domain.CustomerID, scope domain.ConsentScope) (bool, error)
}
