package schema

// CatalogCategoryRatingTable represents the 'catalog.categoryrating' table
type CatalogCategoryRatingTable struct {
	Table    string
	SeriesID string
	Category string
	Severity string
}

// CatalogCategoryRating is the schema definition for catalog.categoryrating
var CatalogCategoryRating = CatalogCategoryRatingTable{
	Table:    "catalog.categoryrating",
	SeriesID: "seriesid",
	Category: "category",
	Severity: "severity",
}

// Columns returns all standard column names
func (t CatalogCategoryRatingTable) Columns() []string {
	return []string{t.SeriesID, t.Category, t.Severity}
}
