package common

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID generates a unique identifier with the given prefix
// Format: <prefix>_<uuid8>
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}

// NewInsightID generates a unique insight ID keyed by its type
// Format: <type>_<uuid8>, e.g. trend_1a2b3c4d
func NewInsightID(insightType string) string {
	return NewID(insightType)
}

// NewFeedbackID generates a unique feedback record ID with the "fb_" prefix
func NewFeedbackID() string {
	return NewID("fb")
}

// NewCollectionID generates a unique insight collection ID with the "coll_" prefix
func NewCollectionID() string {
	return NewID("coll")
}

// NewAdaptationID generates a unique adaptation action ID with the "adapt_" prefix
func NewAdaptationID() string {
	return NewID("adapt")
}

// NewSummaryID generates a unique feedback summary ID with the "sum_" prefix
func NewSummaryID() string {
	return NewID("sum")
}
