package domain

import "sort"

// Selection is a set of selected identifiers (file paths or document paths)
// tracked against the most recently fetched list.
//
// Every selected identifier is a member of the last list passed to
// Reconcile. Toggle and SelectAll ignore identifiers outside that list, and
// Reconcile drops any selected identifier that is no longer present.
//
// A Selection is owned by a single view and is not safe for concurrent use.
type Selection struct {
	known    map[string]struct{}
	selected map[string]struct{}
}

// NewSelection creates an empty selection with an empty known list.
func NewSelection() *Selection {
	return &Selection{
		known:    make(map[string]struct{}),
		selected: make(map[string]struct{}),
	}
}

// Toggle flips membership of id. Unknown identifiers are ignored.
func (s *Selection) Toggle(id string) {
	s.init()
	if _, ok := s.known[id]; !ok {
		return
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// SelectAll sets the selection to exactly ids, restricted to known identifiers.
// Calling it twice with the same ids is idempotent.
func (s *Selection) SelectAll(ids []string) {
	s.init()
	s.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.known[id]; ok {
			s.selected[id] = struct{}{}
		}
	}
}

// Clear empties the selection. The known list is kept.
func (s *Selection) Clear() {
	s.init()
	s.selected = make(map[string]struct{})
}

// Reconcile records ids as the latest known list and drops any selected
// identifier not in it. It must be called whenever the backing list is
// replaced by a fresh fetch.
func (s *Selection) Reconcile(ids []string) {
	s.init()
	s.known = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.known[id] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := s.known[id]; !ok {
			delete(s.selected, id)
		}
	}
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// Len returns the number of selected identifiers.
func (s *Selection) Len() int {
	return len(s.selected)
}

// IsEmpty reports whether nothing is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.selected) == 0
}

// AllSelected reports whether every known identifier is selected.
// It is false when the known list is empty.
func (s *Selection) AllSelected() bool {
	return len(s.known) > 0 && len(s.selected) == len(s.known)
}

// IDs returns the selected identifiers in sorted order.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ToggleAll selects every known identifier, or clears the selection if all
// are already selected. This backs a "select all" checkbox.
func (s *Selection) ToggleAll() {
	s.init()
	if s.AllSelected() {
		s.Clear()
		return
	}
	s.selected = make(map[string]struct{}, len(s.known))
	for id := range s.known {
		s.selected[id] = struct{}{}
	}
}

func (s *Selection) init() {
	if s.known == nil {
		s.known = make(map[string]struct{})
	}
	if s.selected == nil {
		s.selected = make(map[string]struct{})
	}
}
