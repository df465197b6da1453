package service

// Category classifies why a file produced no summary
type Category string

const (
	CategoryNone        Category = ""
	CategoryInvalidFile Category = "invalid_file"
	CategoryMissingData Category = "missing_data"
	CategoryValidation  Category = "validation"
	CategoryCalculation Category = "calculation"
	CategoryCanceled    Category = "canceled"
	CategoryUnexpected  Category = "unexpected"
)

// Categories lists failure categories in report order
var Categories = []Category{
	CategoryInvalidFile,
	CategoryMissingData,
	CategoryValidation,
	CategoryCalculation,
	CategoryCanceled,
	CategoryUnexpected,
}

const (
	// DefaultPattern matches FIT activity files
	DefaultPattern = "*.fit"

	// ChartMaxFiles caps the per-file calories chart
	ChartMaxFiles = 60
)
