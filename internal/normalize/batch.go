package normalize

// BatchFailure records one skipped record in a batch normalization.
type BatchFailure struct {
	Index int
	Err   error
}

// BatchResult separates the records that normalized cleanly from the ones
// that failed. A failing record never aborts the batch.
type BatchResult[T any] struct {
	Entities []T
	Warnings []Warning
	Failures []BatchFailure
}

// Batch runs one normalizer over a slice of records, collecting per-record
// failures instead of stopping.
func Batch[T any](recs []Record, fn func(Record) (T, []Warning, error)) BatchResult[T] {
	var out BatchResult[T]
	for i, rec := range recs {
		entity, warnings, err := fn(rec)
		if err != nil {
			out.Failures = append(out.Failures, BatchFailure{Index: i, Err: err})
			continue
		}
		out.Entities = append(out.Entities, entity)
		out.Warnings = append(out.Warnings, warnings...)
	}
	return out
}
