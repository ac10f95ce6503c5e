package quote

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
)

// Fingerprint hashes the normalized request fields in a canonical order so
// the same request always maps to the same cache key. Only fields that
// influence quoting participate; contact details do not.
func Fingerprint(req connector.QuoteRequest) string {
	h := xxhash.New()

	write := func(s string) {
		h.WriteString(s)
		h.WriteString("\x1f")
	}

	write(string(req.Type))
	write(req.Customer.ID.String())
	write(req.Customer.NationalID)
	write(req.Customer.DateOfBirth.UTC().Format("2006-01-02"))
	write(string(req.Customer.Gender))
	write(string(req.Customer.MaritalStatus))

	dims := make([]string, 0, len(req.Coverage))
	for dim := range req.Coverage {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		write(fmt.Sprintf("%s=%g", dim, req.Coverage[dim]))
	}

	return fmt.Sprintf("%016x", h.Sum64())
}

// cacheKey scopes cached comparisons per customer so a consent revocation
// can evict all of one customer's quotes by prefix.
func cacheKey(req connector.QuoteRequest, fp string) string {
	return "quote:" + req.Customer.ID.String() + ":" + fp
}

// CustomerCachePrefix is the invalidation prefix for one customer's cached
// comparisons.
func CustomerCachePrefix(customer string) string {
	return "quote:" + customer + ":*"
}
