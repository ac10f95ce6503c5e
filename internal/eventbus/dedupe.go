package eventbus

import (
	"context"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/cache"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// deduper tracks seen event IDs per consumer within a bounded retention
// window. SetNX is the atomic check-and-set: exactly one concurrent claim
// for the same key wins. The cache fails open, so a backend outage means
// an event may be processed again, never dropped.
type deduper struct {
	cache cache.Cache
}

// claim reports whether this consumer may process the event. False means
// the same ID was already claimed within the retention window.
func (d deduper) claim(ctx context.Context, consumer string, id domain.EventID) bool {
	if d.cache == nil {
		return true
	}
	key := "evt:" + consumer + ":" + id.String()
	return d.cache.SetNX(ctx, key, []byte("1"), cache.ClassSessions)
}
