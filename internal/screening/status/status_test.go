package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_KnownValues(t *testing.T) {
	tests := []struct {
		raw      string
		category Category
	}{
		{Accepted, CategorySuccess},
		{Received, CategoryPending},
		{PendingReview, CategoryPending},
		{DataChanged, CategoryPending},
		{StatusChanged, CategoryPending},
		{Declined, CategoryError},
		{Invalid, CategoryError},
		{TimedOut, CategoryError},
		{Unauthorized, CategoryError},
		{Cancelled, CategoryError},
		{Deleted, CategoryError},
		{SentinelTimeout, CategoryError},
		{SentinelError, CategoryError},
		{SentinelSkipped, CategoryError},
		{SentinelNoResult, CategoryError},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := Classify(tt.raw)
			assert.Equal(t, tt.raw, c.Raw)
			assert.Equal(t, tt.category, c.Category)
		})
	}
}

// Unrecognized provider vocabulary must never classify as verified.
func TestClassify_UnknownFailsClosed(t *testing.T) {
	for _, raw := range []string{
		"",
		"verified",
		"verification.approved",
		"VERIFICATION.ACCEPTED",
		"ok",
		"200",
		"\x00garbage",
	} {
		c := Classify(raw)
		assert.Equal(t, CategoryError, c.Category, "raw=%q", raw)
		assert.True(t, c.IsError(), "raw=%q", raw)
		assert.Equal(t, SentinelNoResult, c.Raw, "raw=%q", raw)
	}
}

func TestIsError(t *testing.T) {
	assert.False(t, Classify(Accepted).IsError())
	assert.False(t, Classify(Received).IsError())
	assert.True(t, Classify(Declined).IsError())
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(Accepted))
	assert.False(t, Known("verification.approved"))
}
