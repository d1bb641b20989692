// Package status defines the closed set of normalized verification states a
// screening attempt can land in, and the fail-closed classification over
// them. The raw provider vocabulary is stored on the profile verbatim;
// category membership is always derived here, never persisted.
package status

// Category partitions the taxonomy by how the pipeline treats a state.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryPending Category = "pending"
	CategoryError   Category = "error"
)

// Provider event strings, kept exactly as the provider emits them.
const (
	Accepted      = "verification.accepted"
	Declined      = "verification.declined"
	Cancelled     = "verification.cancelled"
	Received      = "request.received"
	PendingReview = "review.pending"
	DataChanged   = "request.data.changed"
	StatusChanged = "request.status.changed"
	Invalid       = "request.invalid"
	TimedOut      = "request.timeout"
	Unauthorized  = "request.unauthorized"
	Deleted       = "request.deleted"
)

// Client-side sentinels for attempts that never produced a provider event.
const (
	SentinelTimeout  = "Timeout"
	SentinelError    = "Error"
	SentinelSkipped  = "Skipped"
	SentinelNoResult = "No API Result"
)

// Classification is the derived view of a raw status string.
type Classification struct {
	Raw      string
	Category Category
}

// IsError reports whether the classified state must carry an ApiError.
func (c Classification) IsError() bool {
	return c.Category == CategoryError
}

var categories = map[string]Category{
	Accepted:         CategorySuccess,
	Received:         CategoryPending,
	PendingReview:    CategoryPending,
	DataChanged:      CategoryPending,
	StatusChanged:    CategoryPending,
	Declined:         CategoryError,
	Invalid:          CategoryError,
	TimedOut:         CategoryError,
	Unauthorized:     CategoryError,
	Cancelled:        CategoryError,
	Deleted:          CategoryError,
	SentinelTimeout:  CategoryError,
	SentinelError:    CategoryError,
	SentinelSkipped:  CategoryError,
	SentinelNoResult: CategoryError,
}

// Classify maps any raw provider string or internal sentinel to its
// category. Total: unrecognized values classify as the no-result error
// state rather than silently succeeding. An unknown provider response must
// never be treated as verified.
func Classify(raw string) Classification {
	if category, ok := categories[raw]; ok {
		return Classification{Raw: raw, Category: category}
	}
	return Classification{Raw: SentinelNoResult, Category: CategoryError}
}

// Known reports whether raw is part of the taxonomy.
func Known(raw string) bool {
	_, ok := categories[raw]
	return ok
}

// All returns every raw value in the taxonomy; used by validation layers.
func All() []string {
	result := make([]string, 0, len(categories))
	for raw := range categories {
		result = append(result, raw)
	}
	return result
}
