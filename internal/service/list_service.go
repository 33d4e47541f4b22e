package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/repository"
	"github.com/spec-kit/ticket-dashboard/internal/table"
)

// ErrNothingToSave is returned when a batch has no non-empty values.
var ErrNothingToSave = errors.New("no values to save")

// ListGroups holds custom list entries per classifier. Every classifier is
// present, possibly with no entries.
type ListGroups map[domain.ListField][]domain.ListEntry

// Values returns the entry values per classifier, used as form options.
func (g ListGroups) Values() map[domain.ListField][]string {
	out := make(map[domain.ListField][]string, len(g))
	for field, entries := range g {
		values := make([]string, 0, len(entries))
		for _, entry := range entries {
			values = append(values, entry.Value)
		}
		out[field] = values
	}
	return out
}

// ListService manages the custom lists feeding the add form.
type ListService struct {
	lists  repository.ListRepository
	logger *zap.Logger
}

// NewListService constructs the service.
func NewListService(lists repository.ListRepository, logger *zap.Logger) *ListService {
	return &ListService{lists: lists, logger: logger}
}

// Grouped fetches every entry grouped by classifier.
func (s *ListService) Grouped(ctx context.Context) (ListGroups, error) {
	entries, err := s.lists.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch custom lists: %w", err)
	}
	groups := make(ListGroups, len(domain.ListFields))
	for _, field := range domain.ListFields {
		groups[field] = []domain.ListEntry{}
	}
	for _, entry := range entries {
		if _, ok := groups[entry.Field]; !ok {
			continue
		}
		groups[entry.Field] = append(groups[entry.Field], entry)
	}
	return groups, nil
}

// SplitDraft turns a draft with one value per line into values.
func SplitDraft(draft string) []string {
	return strings.Split(draft, "\n")
}

// Save stores the trimmed, non-empty values of every classifier in one
// batch.
func (s *ListService) Save(ctx context.Context, values map[domain.ListField][]string) ([]domain.ListEntry, error) {
	var batch []domain.ListEntry
	for _, field := range domain.ListFields {
		for _, raw := range values[field] {
			if value := strings.TrimSpace(raw); value != "" {
				batch = append(batch, domain.ListEntry{Field: field, Value: value})
			}
		}
	}
	for field := range values {
		if _, err := domain.ParseListField(string(field)); err != nil {
			return nil, err
		}
	}
	if len(batch) == 0 {
		return nil, ErrNothingToSave
	}

	stored, err := s.lists.InsertMany(ctx, batch)
	if err != nil {
		s.logger.Warn("save custom lists", zap.Int("entries", len(batch)), zap.Error(err))
		return nil, err
	}
	s.logger.Info("custom lists saved", zap.Int("entries", len(stored)))
	return stored, nil
}

// Delete removes one entry after confirmation. Declining is a no-op and
// returns false.
func (s *ListService) Delete(ctx context.Context, id string, confirmer table.Confirmer) (bool, error) {
	if !confirmer.Confirm("Delete this list entry?") {
		return false, nil
	}
	if err := s.lists.Delete(ctx, id); err != nil {
		return false, err
	}
	s.logger.Info("custom list entry deleted", zap.String("entry_id", id))
	return true, nil
}
