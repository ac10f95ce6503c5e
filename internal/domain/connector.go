package domain

import "time"

// Capability is a typed operation set a connector may declare support for.
// Membership is declared per instance at registration, never inferred from
// the connector's static type.
type Capability string

const (
	CapabilityVehicle    Capability = "vehicle"
	CapabilityPension    Capability = "pension"
	CapabilityCarrier    Capability = "carrier"
	CapabilityAggregator Capability = "aggregator"
)

// ConnectorState is the registry-owned lifecycle state of a connector.
type ConnectorState string

const (
	StateUnregistered ConnectorState = "unregistered"
	StateInitializing ConnectorState = "initializing"
	StateHealthy      ConnectorState = "healthy"
	StateDegraded     ConnectorState = "degraded"
	StateUnhealthy    ConnectorState = "unhealthy"
)

// Usable reports whether a connector in this state may serve traffic.
// Degraded connectors still serve; unhealthy ones are skipped.
func (s ConnectorState) Usable() bool {
	return s == StateHealthy || s == StateDegraded
}

// ConnectorMetadata identifies a connector instance and what it can do.
type ConnectorMetadata struct {
	ID           ConnectorID  `json:"id"`
	SourceName   string       `json:"source_name"` // human-readable external source
	Capabilities []Capability `json:"capabilities"`
	Version      string       `json:"version,omitempty"`
}

// Supports reports whether the declared capability set contains cap.
func (m ConnectorMetadata) Supports(cap Capability) bool {
	for _, c := range m.Capabilities {
		if c == cap {
			return true
		}
	}
	return false
}

// HealthStatus is the registry's view of one connector's health. Owned and
// mutated exclusively by the registry; handed out by value.
type HealthStatus struct {
	ID                  ConnectorID    `json:"id"`
	State               ConnectorState `json:"state"`
	LastSuccess         time.Time      `json:"last_success,omitzero"`
	LastFailure         time.Time      `json:"last_failure,omitzero"`
	ConsecutiveFailures int            `json:"consecutive_failures"`
}
