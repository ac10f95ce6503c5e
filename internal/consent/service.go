package consent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// TopicConsentRevoked is published after every successful revocation so
// downstream caches can drop data derived under the revoked grant.
const TopicConsentRevoked = "consent.revoked"

// Events is the minimal publishing surface the service needs.
type Events interface {
	Publish(ctx context.Context, topic string, payload any) error
}

var validScopes = map[domain.ConsentScope]bool{
	domain.ConsentScopePension: true,
	domain.ConsentScopeCarrier: true,
	domain.ConsentScopeQuoting: true,
}

// Service persists consent decisions and answers scope checks. It
// implements the checker contract pension and carrier connectors consult
// before touching subject data.
type Service struct {
	store  Store
	events Events
	logger *slog.Logger
	clock  func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEvents enables revocation event publication.
func WithEvents(ev Events) Option {
	return func(s *Service) { s.events = ev }
}

// WithClockFunc injects a clock for tests.
func WithClockFunc(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService builds a consent service over the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Grant records a consent for one scope with the given lifetime.
func (s *Service) Grant(ctx context.Context, subject domain.CustomerID, scope domain.ConsentScope, ttl time.Duration) (domain.Consent, error) {
	if !validScopes[scope] {
		return domain.Consent{}, fmt.Errorf("unknown consent scope %q", scope)
	}
	if ttl <= 0 {
		return domain.Consent{}, fmt.Errorf("consent ttl must be positive, got %s", ttl)
	}
	now := s.clock().UTC()
	c := domain.Consent{
		Subject:   subject,
		Scope:     scope,
		GrantedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.store.Save(ctx, c); err != nil {
		return domain.Consent{}, fmt.Errorf("save consent: %w", err)
	}
	s.logger.InfoContext(ctx, "consent granted",
		"subject", subject,
		"scope", scope,
		"expires_at", c.ExpiresAt,
	)
	return c, nil
}

// revokedEvent is the payload of consent.revoked.
type revokedEvent struct {
	Customer domain.CustomerID   `json:"customer"`
	Scope    domain.ConsentScope `json:"scope"`
}

// Revoke withdraws every active grant for the scope and announces the
// revocation so derived state gets evicted.
func (s *Service) Revoke(ctx context.Context, subject domain.CustomerID, scope domain.ConsentScope) error {
	if err := s.store.Revoke(ctx, subject, scope, s.clock().UTC()); err != nil {
		return fmt.Errorf("revoke consent: %w", err)
	}
	s.logger.InfoContext(ctx, "consent revoked", "subject", subject, "scope", scope)
	if s.events != nil {
		if err := s.events.Publish(ctx, TopicConsentRevoked, revokedEvent{Customer: subject, Scope: scope}); err != nil {
			s.logger.WarnContext(ctx, "failed to publish consent revocation",
				"subject", subject,
				"error", err,
			)
		}
	}
	return nil
}

// List returns every recorded consent for the subject, revoked included.
func (s *Service) List(ctx context.Context, subject domain.CustomerID) ([]domain.Consent, error) {
	return s.store.ListBySubject(ctx, subject)
}

// Allowed reports whether the subject currently permits the scope.
func (s *Service) Allowed(ctx context.Context, subject domain.CustomerID, scope domain.ConsentScope) (bool, error) {
	consents, err := s.store.ListBySubject(ctx, subject)
	if err != nil {
		return false, fmt.Errorf("list consents: %w", err)
	}
	return domain.HasActiveConsent(consents, scope, s.clock()), nil
}
