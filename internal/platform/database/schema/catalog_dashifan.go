package schema

// CatalogDashiFanTable represents the 'catalog.dashifan' table
type CatalogDashiFanTable struct {
	Table        string
	ID           string
	SeriesID     string
	Name         string
	Description  string
	MonthlyPrice string
	IsActive     string
	CreatedAt    string
	UpdatedAt    string
}

// CatalogDashiFan is the schema definition for catalog.dashifan
var CatalogDashiFan = CatalogDashiFanTable{
	Table:        "catalog.dashifan",
	ID:           "id",
	SeriesID:     "seriesid",
	Name:         "name",
	Description:  "description",
	MonthlyPrice: "monthlyprice",
	IsActive:     "isactive",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t CatalogDashiFanTable) Columns() []string {
	return []string{
		t.ID, t.SeriesID, t.Name, t.Description, t.MonthlyPrice, t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
