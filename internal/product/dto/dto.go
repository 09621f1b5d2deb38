package dto

type ProductFilters struct {
	TenantID    string
	SearchQuery string // name or SKU
	Category    string
	Page        int
	PageSize    int
}

type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// FieldDiff maps changed field names to their before/after values.
type FieldDiff map[string]FieldChange
