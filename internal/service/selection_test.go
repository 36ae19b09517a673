package service

import (
	"math"
	"testing"

	"github.com/andy/jobtrack/internal/domain"
)

var washer = domain.CatalogItem{ID: "PART001", Name: "Tap Washer", UnitPrice: "1.50", Category: "Plumbing"}
var tapFit = domain.CatalogItem{ID: "1", Name: "Tap Replacement", UnitPrice: "45.00", Category: "Plumbing"}

func TestAdd_MergesByIdentity(t *testing.T) {
	sel := NewSelection()

	sel.Add(washer, domain.ItemTypePart)
	sel.Add(washer, domain.ItemTypePart)
	sel.Add(washer, domain.ItemTypePart)

	if sel.Len() != 1 {
		t.Fatalf("expected 1 entry after repeated adds, got %d", sel.Len())
	}
	if got := sel.Get(washer.ID, domain.ItemTypePart); got == nil || got.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %+v", got)
	}
}

func TestAdd_SameIDDifferentTypeIsDistinct(t *testing.T) {
	sel := NewSelection()
	a := domain.CatalogItem{ID: "X", Name: "A", UnitPrice: "10.00"}

	sel.Add(a, domain.ItemTypePart)
	sel.Add(a, domain.ItemTypeLabour)

	if sel.Len() != 2 {
		t.Fatalf("identity is (itemId, itemType); expected 2 entries, got %d", sel.Len())
	}
}

func TestSetQuantity_ZeroRemoves(t *testing.T) {
	sel := NewSelection()
	sel.Add(washer, domain.ItemTypePart)
	sel.SetQuantity(washer.ID, domain.ItemTypePart, 5)

	if got := sel.Get(washer.ID, domain.ItemTypePart); got == nil || got.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %+v", got)
	}

	sel.SetQuantity(washer.ID, domain.ItemTypePart, 0)
	if sel.Len() != 0 {
		t.Fatal("quantity zero must remove the entry")
	}

	sel.Add(washer, domain.ItemTypePart)
	sel.SetQuantity(washer.ID, domain.ItemTypePart, -2)
	if sel.Len() != 0 {
		t.Fatal("negative quantity must remove the entry")
	}
}

func TestUpdate_MissingPairIsNoOp(t *testing.T) {
	sel := NewSelection()

	sel.Update(&domain.JobItem{ItemID: "ghost", ItemType: domain.ItemTypePart, Quantity: 4})

	if sel.Len() != 0 {
		t.Fatal("update must not insert a missing entry")
	}
}

func TestRemove_Idempotent(t *testing.T) {
	sel := NewSelection()
	sel.Add(washer, domain.ItemTypePart)
	sel.Add(washer, domain.ItemTypePart)

	sel.Remove(washer.ID, domain.ItemTypePart)
	sel.Remove(washer.ID, domain.ItemTypePart)

	if sel.Len() != 0 {
		t.Fatalf("expected empty selection, got %d entries", sel.Len())
	}

	totals := ComputeTotals(sel.Items())
	if totals.Total != 0 || totals.PartCount != 0 || totals.LabourCount != 0 {
		t.Fatalf("expected all-zero totals for empty set, got %+v", totals)
	}
}

func TestComputeTotals_PartitionsByType(t *testing.T) {
	sel := NewSelection()
	sel.Add(washer, domain.ItemTypePart) // 1.50
	sel.Add(washer, domain.ItemTypePart) // qty 2 -> 3.00
	sel.Add(tapFit, domain.ItemTypeLabour)

	totals := ComputeTotals(sel.Items())

	if math.Abs(totals.PartTotal-3.00) > 1e-9 {
		t.Fatalf("expected part total 3.00, got %v", totals.PartTotal)
	}
	if math.Abs(totals.LabourTotal-45.00) > 1e-9 {
		t.Fatalf("expected labour total 45.00, got %v", totals.LabourTotal)
	}
	if math.Abs(totals.Total-48.00) > 1e-9 {
		t.Fatalf("expected total 48.00, got %v", totals.Total)
	}
	if totals.PartCount != 1 || totals.LabourCount != 1 {
		t.Fatalf("counts are distinct lines, not quantities: %+v", totals)
	}
}

func TestComputeTotals_OrderInvariant(t *testing.T) {
	items := []*domain.JobItem{
		{ItemID: "a", ItemType: domain.ItemTypePart, UnitPrice: "1.25", Quantity: 3},
		{ItemID: "b", ItemType: domain.ItemTypeLabour, UnitPrice: "60.00", Quantity: 1},
		{ItemID: "c", ItemType: domain.ItemTypePart, UnitPrice: "9.99", Quantity: 2},
	}
	reversed := []*domain.JobItem{items[2], items[1], items[0]}

	a := ComputeTotals(items)
	b := ComputeTotals(reversed)

	if a != b {
		t.Fatalf("totals must be order-independent: %+v vs %+v", a, b)
	}
}

func TestComputeTotals_BadPriceContributesZero(t *testing.T) {
	items := []*domain.JobItem{
		{ItemID: "bad", ItemType: domain.ItemTypePart, UnitPrice: "abc", Quantity: 3},
		{ItemID: "ok", ItemType: domain.ItemTypePart, UnitPrice: "2.00", Quantity: 1},
	}

	totals := ComputeTotals(items)

	if math.IsNaN(totals.Total) {
		t.Fatal("bad price must never propagate NaN")
	}
	if math.Abs(totals.PartTotal-2.00) > 1e-9 {
		t.Fatalf("bad price must contribute 0, got part total %v", totals.PartTotal)
	}
	if totals.PartCount != 2 {
		t.Fatalf("bad-priced item still counts as a line, got %d", totals.PartCount)
	}
}

func TestLoad_CopiesItems(t *testing.T) {
	orig := []*domain.JobItem{
		{ItemID: "a", ItemType: domain.ItemTypePart, UnitPrice: "1.00", Quantity: 1},
	}

	sel := NewSelection()
	sel.Load(orig)
	sel.SetQuantity("a", domain.ItemTypePart, 9)

	if orig[0].Quantity != 1 {
		t.Fatal("mutating the selection must not touch the loaded source")
	}
}
