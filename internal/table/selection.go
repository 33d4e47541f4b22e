package table

// ToggleSelected flips the selection of a ticket and reports whether it is
// now selected.
func (e *Engine) ToggleSelected(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexLocked(id) < 0 {
		return false, ErrNotFound
	}
	if _, ok := e.selected[id]; ok {
		delete(e.selected, id)
		return false, nil
	}
	e.selected[id] = struct{}{}
	return true, nil
}

// IsSelected reports whether id is selected.
func (e *Engine) IsSelected(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.selected[id]
	return ok
}

// SelectedIDs returns the selected ids in collection order.
func (e *Engine) SelectedIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedIDsLocked()
}

// CanBulkDelete reports whether any ticket is selected.
func (e *Engine) CanBulkDelete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.selected) > 0
}

// ClearSelection deselects everything.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.selected)
}

func (e *Engine) selectedIDsLocked() []string {
	if len(e.selected) == 0 {
		return nil
	}
	ids := make([]string, 0, len(e.selected))
	for _, ticket := range e.collection {
		if _, ok := e.selected[ticket.ID]; ok {
			ids = append(ids, ticket.ID)
		}
	}
	return ids
}
