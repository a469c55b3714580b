package schema

import "time"

// RetrievalResult is the tri-state outcome of a retrieve: empty, found or failure.
type RetrievalResult struct {
	Kind      RetrievalKind
	Images    []FeedImage
	Timestamp time.Time
	Err       error
}

// EmptyResult reports that no record is stored.
func EmptyResult() RetrievalResult {
	return RetrievalResult{Kind: EmptyRetrieval}
}

// FoundResult reports a valid stored record.
func FoundResult(record CacheRecord) RetrievalResult {
	return RetrievalResult{
		Kind:      FoundRetrieval,
		Images:    record.Images,
		Timestamp: record.Timestamp,
	}
}

// FailureResult reports that the stored record could not be read.
func FailureResult(err error) RetrievalResult {
	return RetrievalResult{Kind: FailureRetrieval, Err: err}
}

// IsEmpty reports whether the slot held nothing.
func (r RetrievalResult) IsEmpty() bool { return r.Kind == EmptyRetrieval }

// IsFound reports whether a record was returned.
func (r RetrievalResult) IsFound() bool { return r.Kind == FoundRetrieval }

// IsFailure reports whether the retrieve failed.
func (r RetrievalResult) IsFailure() bool { return r.Kind == FailureRetrieval }

// Record returns the found record. The second value is false unless the result is found.
func (r RetrievalResult) Record() (CacheRecord, bool) {
	if !r.IsFound() {
		return CacheRecord{}, false
	}
	return CacheRecord{Images: r.Images, Timestamp: r.Timestamp}, true
}
