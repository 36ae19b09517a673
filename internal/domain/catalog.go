package domain

// ItemType distinguishes the two catalogs a job item can come from.
type ItemType string

const (
	ItemTypePart   ItemType = "part"
	ItemTypeLabour ItemType = "labour"
)

// CatalogItem is a read-only entry from a remote parts or labour price
// list. Unit prices arrive as decimal strings and are not guaranteed to
// be well-formed.
type CatalogItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Category  string `json:"category,omitempty"`
}
