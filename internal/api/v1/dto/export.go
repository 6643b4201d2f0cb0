package dto

// ExportQuery holds GET /api/history/export query parameters.
type ExportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=csv json xlsx"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}
