package domain

import "strconv"

// JobItem is a denormalized snapshot of a catalog item attached to a
// job: name, price, and category are copied at selection time so later
// catalog changes do not affect already-selected items. Identity within
// one job's selection is the (ItemID, ItemType) pair, never the storage
// ID.
type JobItem struct {
	ID        string // assigned by the store, empty until persisted
	JobID     string // empty until the job is finalized
	ItemID    string
	ItemType  ItemType
	Name      string
	UnitPrice string
	Quantity  int
	Category  string
}

// NewJobItem snapshots a catalog item as a line item with quantity 1.
func NewJobItem(ci CatalogItem, itemType ItemType) *JobItem {
	return &JobItem{
		ItemID:    ci.ID,
		ItemType:  itemType,
		Name:      ci.Name,
		UnitPrice: ci.UnitPrice,
		Quantity:  1,
		Category:  ci.Category,
	}
}

// Matches reports whether the item has the given identity pair.
func (i *JobItem) Matches(itemID string, itemType ItemType) bool {
	return i.ItemID == itemID && i.ItemType == itemType
}

// Amount returns unit price times quantity. A unit price that does not
// parse as a number contributes 0; catalog data is externally sourced
// and must never produce NaN here.
func (i *JobItem) Amount() float64 {
	price, err := strconv.ParseFloat(i.UnitPrice, 64)
	if err != nil {
		return 0
	}
	return price * float64(i.Quantity)
}

// Totals summarizes a selection of job items by category.
type Totals struct {
	PartTotal   float64
	LabourTotal float64
	Total       float64
	PartCount   int
	LabourCount int
}
