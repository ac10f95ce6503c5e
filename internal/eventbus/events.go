package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Topic names for the hub's domain events.
const (
	TopicPolicyUpdated         = "policy.updated"
	TopicCustomerDataSynced    = "customer.data.synced"
	TopicQuoteCompared         = "quote.compared"
	TopicConsentRevoked        = "consent.revoked"
	TopicConnectorStateChanged = "connector.state.changed"
	TopicCoverageAnalyzed      = "coverage.analyzed"
	TopicWorkflowFailed        = "workflow.failed"
)

// AllTopics lists every hub topic, for broker provisioning.
func AllTopics() []string {
	return []string{
		TopicPolicyUpdated,
		TopicCustomerDataSynced,
		TopicQuoteCompared,
		TopicConsentRevoked,
		TopicConnectorStateChanged,
		TopicCoverageAnalyzed,
		TopicWorkflowFailed,
	}
}

// Envelope wraps every published event. The ID is the dedupe identity:
// redelivering an envelope with the same ID must not double-apply effects.
type Envelope struct {
	ID         domain.EventID  `json:"id"`
	Topic      string          `json:"topic"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope stamps a fresh event identity around a payload.
func NewEnvelope(topic string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal event payload for %s: %w", topic, err)
	}
	return Envelope{
		ID:         domain.EventID(uuid.NewString()),
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}

// Decode unmarshals the payload into out.
func (e Envelope) Decode(out any) error {
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Topic, err)
	}
	return nil
}
