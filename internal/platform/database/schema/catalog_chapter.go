package schema

// CatalogChapterTable represents the 'catalog.chapter' table
type CatalogChapterTable struct {
	Table              string
	ID                 string
	VolumeID           string
	ChapterNumber      string
	Price              string
	PublishedAt        string
	CurrentVersionID   string
	PublishedVersionID string
	ViewCount          string
	CreatedAt          string
	UpdatedAt          string
}

// CatalogChapter is the schema definition for catalog.chapter
var CatalogChapter = CatalogChapterTable{
	Table:              "catalog.chapter",
	ID:                 "id",
	VolumeID:           "volumeid",
	ChapterNumber:      "chapternumber",
	Price:              "price",
	PublishedAt:        "publishedat",
	CurrentVersionID:   "currentversionid",
	PublishedVersionID: "publishedversionid",
	ViewCount:          "viewcount",
	CreatedAt:          "createdat",
	UpdatedAt:          "updatedat",
}

// Columns returns all standard column names
func (t CatalogChapterTable) Columns() []string {
	return []string{
		t.ID, t.VolumeID, t.ChapterNumber, t.Price, t.PublishedAt, t.CurrentVersionID,
		t.PublishedVersionID, t.ViewCount, t.CreatedAt, t.UpdatedAt,
	}
}
