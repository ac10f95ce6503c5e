package domain

// Typed identifiers keep the integration hub honest about which string means
// what. Construct at trust boundaries; direct casting bypasses validation.

// CustomerID is the internal customer identifier.
type CustomerID string

// CarrierID identifies an insurance carrier across all connectors.
// Canonical form is lowercase, e.g. "harel", "clal", "migdal".
type CarrierID string

// ConnectorID identifies one registered connector instance.
type ConnectorID string

// PolicyNumber is the carrier-assigned policy number. Unique only together
// with the carrier.
type PolicyNumber string

// PolicyKey is the globally unique policy reference: carrier plus number.
type PolicyKey struct {
	Carrier CarrierID    `json:"carrier"`
	Number  PolicyNumber `json:"number"`
}

// FundID identifies a pension fund at the clearinghouse.
type FundID string

// EventID uniquely identifies a published domain event; used for consumer
// deduplication.
type EventID string

func (id CustomerID) String() string  { return string(id) }
func (id CarrierID) String() string   { return string(id) }
func (id ConnectorID) String() string { return string(id) }
func (id EventID) String() string     { return string(id) }
