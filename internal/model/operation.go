// Package model defines domain entities for the application.
package model

import "fmt"

// OperationKind identifies one of the text-processing operations the
// gateway fronts. The value is stored verbatim in the audit trail's
// service_type column.
type OperationKind string

const (
	OperationTranslation OperationKind = "translation"
	OperationSummary     OperationKind = "summary"
	OperationKeywords    OperationKind = "keywords"
	OperationEditing     OperationKind = "editing"
	OperationAnalytics   OperationKind = "analytics"
)

// OperationKinds lists every supported operation, in routing order.
var OperationKinds = []OperationKind{
	OperationTranslation,
	OperationSummary,
	OperationKeywords,
	OperationEditing,
	OperationAnalytics,
}

// IsValid checks if the operation kind is one of the supported five.
func (k OperationKind) IsValid() bool {
	switch k {
	case OperationTranslation, OperationSummary, OperationKeywords,
		OperationEditing, OperationAnalytics:
		return true
	}
	return false
}

// String returns the kind as a plain string.
func (k OperationKind) String() string {
	return string(k)
}

// ParseOperationKind converts a route segment into an OperationKind.
func ParseOperationKind(s string) (OperationKind, error) {
	kind := OperationKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("unknown operation kind %q", s)
	}
	return kind, nil
}
