package dto

type CreateCategoryInput struct {
	TenantID    string
	Name        string
	Description *string
	SortOrder   int
}

type UpdateCategoryInput struct {
	TenantID    string
	ID          string
	Name        string
	Description *string
	SortOrder   int
	IsActive    bool
}
