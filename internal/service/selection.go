package service

import (
	"github.com/andy/jobtrack/internal/domain"
)

// Selection is the working set of line items for one job being edited.
// Items keep insertion order, and within the set the (ItemID, ItemType)
// pair is unique: adding an already-selected catalog item bumps its
// quantity instead of duplicating the row. All mutation runs on the
// interaction goroutine; the selection is not shared.
type Selection struct {
	items []*domain.JobItem
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{items: make([]*domain.JobItem, 0)}
}

// Load replaces the selection with a job's persisted items, e.g. when
// opening an existing job for editing.
func (s *Selection) Load(items []*domain.JobItem) {
	s.items = make([]*domain.JobItem, 0, len(items))
	for _, it := range items {
		copied := *it
		s.items = append(s.items, &copied)
	}
}

// Items returns the selection in insertion order.
func (s *Selection) Items() []*domain.JobItem {
	out := make([]*domain.JobItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of distinct line items.
func (s *Selection) Len() int {
	return len(s.items)
}

// Get returns the entry with the given identity pair, or nil.
func (s *Selection) Get(itemID string, itemType domain.ItemType) *domain.JobItem {
	for _, it := range s.items {
		if it.Matches(itemID, itemType) {
			return it
		}
	}
	return nil
}

// Add selects a catalog item. If the identity pair is already present
// its quantity is incremented; otherwise a snapshot with quantity 1 is
// appended.
func (s *Selection) Add(ci domain.CatalogItem, itemType domain.ItemType) {
	if existing := s.Get(ci.ID, itemType); existing != nil {
		existing.Quantity++
		return
	}
	s.items = append(s.items, domain.NewJobItem(ci, itemType))
}

// Update replaces the entry matching item's identity pair. A missing
// pair is a no-op: inserting here would bypass the merge rule that only
// Add enforces.
func (s *Selection) Update(item *domain.JobItem) {
	for i, it := range s.items {
		if it.Matches(item.ItemID, item.ItemType) {
			copied := *item
			s.items[i] = &copied
			return
		}
	}
}

// Remove deletes the entry with the given identity pair; idempotent.
func (s *Selection) Remove(itemID string, itemType domain.ItemType) {
	for i, it := range s.items {
		if it.Matches(itemID, itemType) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets an entry's quantity. Zero or negative removes the
// entry entirely; the set never holds a non-positive quantity.
func (s *Selection) SetQuantity(itemID string, itemType domain.ItemType, quantity int) {
	if quantity <= 0 {
		s.Remove(itemID, itemType)
		return
	}
	if existing := s.Get(itemID, itemType); existing != nil {
		existing.Quantity = quantity
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.items = s.items[:0]
}

// ComputeTotals partitions items by type and sums price times quantity
// per partition. It is the single source of the money figures shown on
// the selection, summary, and list surfaces; unparsable prices
// contribute zero (see domain.JobItem.Amount).
func ComputeTotals(items []*domain.JobItem) domain.Totals {
	var t domain.Totals
	for _, it := range items {
		switch it.ItemType {
		case domain.ItemTypeLabour:
			t.LabourCount++
			t.LabourTotal += it.Amount()
		default:
			t.PartCount++
			t.PartTotal += it.Amount()
		}
	}
	t.Total = t.PartTotal + t.LabourTotal
	return t
}
