package dto

import "github.com/spec-kit/ticket-dashboard/internal/domain"

// SaveListsRequest carries new values per classifier.
type SaveListsRequest struct {
	Values map[string][]string `json:"values"`
}

// ListEntryResponse is one custom list entry.
type ListEntryResponse struct {
	ID    string           `json:"id"`
	Field domain.ListField `json:"field"`
	Value string           `json:"value"`
}

// ListEntries converts entries.
func ListEntries(entries []domain.ListEntry) []ListEntryResponse {
	out := make([]ListEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ListEntryResponse{ID: entry.ID, Field: entry.Field, Value: entry.Value})
	}
	return out
}
