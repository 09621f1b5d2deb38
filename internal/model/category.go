package model

type Category struct {
	BaseModel
	TenantID    string  `db:"tenant_id" json:"tenant_id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description"`
	SortOrder   int     `db:"sort_order" json:"sort_order"`
	IsActive    bool    `db:"is_active" json:"is_active"`
}
