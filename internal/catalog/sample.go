package catalog

import "github.com/andy/jobtrack/internal/domain"

// Built-in catalogs shown when the endpoints are unreachable and the
// cache is empty, so the job form always has something to select from.

func sampleData(kind Kind) []domain.CatalogItem {
	if kind == KindLabour {
		return SampleLabour()
	}
	return SampleParts()
}

// SampleParts returns the built-in parts catalog.
func SampleParts() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "PART001", Name: "Tap Washer", UnitPrice: "1.50", Category: "Plumbing"},
		{ID: "PART002", Name: "Compression Elbow (15mm)", UnitPrice: "3.75", Category: "Plumbing"},
		{ID: "PART003", Name: "Flexible Hose Connector (12mm)", UnitPrice: "7.25", Category: "Plumbing"},
		{ID: "PART004", Name: "Toilet Flush Valve", UnitPrice: "15.00", Category: "Plumbing"},
		{ID: "PART005", Name: "Radiator Valve Set", UnitPrice: "22.50", Category: "Heating"},
		{ID: "PART006", Name: "Copper Pipe (1 meter, 15mm)", UnitPrice: "12.00", Category: "Plumbing"},
		{ID: "PART007", Name: "Pipe Insulation (2 meter)", UnitPrice: "5.50", Category: "Heating"},
		{ID: "PART008", Name: "Sink Trap", UnitPrice: "8.75", Category: "Plumbing"},
		{ID: "PART009", Name: "Shower Head", UnitPrice: "18.99", Category: "Bathroom"},
		{ID: "PART010", Name: "Silicone Sealant", UnitPrice: "4.25", Category: "General"},
	}
}

// SampleLabour returns the built-in labour catalog.
func SampleLabour() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "1", Name: "Tap Replacement", UnitPrice: "45.00", Category: "Plumbing"},
		{ID: "2", Name: "Pipe Repair", UnitPrice: "65.00", Category: "Plumbing"},
		{ID: "3", Name: "Toilet Installation", UnitPrice: "120.00", Category: "Plumbing"},
		{ID: "4", Name: "Radiator Installation", UnitPrice: "95.00", Category: "Heating"},
		{ID: "5", Name: "Boiler Service", UnitPrice: "85.00", Category: "Heating"},
		{ID: "6", Name: "Shower Installation", UnitPrice: "150.00", Category: "Bathroom"},
		{ID: "7", Name: "Drain Unblocking", UnitPrice: "75.00", Category: "Plumbing"},
		{ID: "8", Name: "Leak Detection", UnitPrice: "60.00", Category: "Plumbing"},
		{ID: "9", Name: "Emergency Call-Out", UnitPrice: "120.00", Category: "General"},
	}
}
