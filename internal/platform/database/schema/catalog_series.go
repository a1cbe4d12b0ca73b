package schema

// CatalogSeriesTable represents the 'catalog.series' table
type CatalogSeriesTable struct {
	Table         string
	ID            string
	OwnerID       string
	Title         string
	Synopsis      string
	ThumbnailURL  string
	Slug          string
	Type          string
	Status        string
	ContentRating string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// CatalogSeries is the schema definition for catalog.series
var CatalogSeries = CatalogSeriesTable{
	Table:         "catalog.series",
	ID:            "id",
	OwnerID:       "ownerid",
	Title:         "title",
	Synopsis:      "synopsis",
	ThumbnailURL:  "thumbnailurl",
	Slug:          "slug",
	Type:          "type",
	Status:        "status",
	ContentRating: "contentrating",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}

// Columns returns all standard column names
func (t CatalogSeriesTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Synopsis, t.ThumbnailURL, t.Slug, t.Type,
		t.Status, t.ContentRating, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
