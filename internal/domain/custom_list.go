package domain

import (
	"fmt"
	"time"
)

// ListField classifies which form selector a custom list entry feeds.
type ListField string

const (
	ListFieldOrganization  ListField = "organization"
	ListFieldHandler       ListField = "handler"
	ListFieldTag           ListField = "tag"
	ListFieldFunctionality ListField = "functionality"
)

// ListFields enumerates the classifiers in form order.
var ListFields = []ListField{
	ListFieldOrganization,
	ListFieldHandler,
	ListFieldTag,
	ListFieldFunctionality,
}

// ParseListField validates a classifier.
func ParseListField(raw string) (ListField, error) {
	for _, field := range ListFields {
		if string(field) == raw {
			return field, nil
		}
	}
	return "", fmt.Errorf("unknown list field %q", raw)
}

// ListEntry is a reusable lookup value offered in form selectors.
type ListEntry struct {
	ID    string
	Field ListField
	Value string
}

// Script is a text template used to generate canned replies.
type Script struct {
	ID          string
	Name        string
	RawTemplate string
	CreatedAt   time.Time
}
