package schema

// CatalogChapterVersionTable represents the 'catalog.chapterversion' table
type CatalogChapterVersionTable struct {
	Table        string
	ID           string
	ChapterID    string
	Title        string
	ThumbnailURL string
	Content      string
	Note         string
	VersionName  string
	Status       string
	IsAutoSave   string
	CreatedAt    string
}

// CatalogChapterVersion is the schema definition for catalog.chapterversion
var CatalogChapterVersion = CatalogChapterVersionTable{
	Table:        "catalog.chapterversion",
	ID:           "id",
	ChapterID:    "chapterid",
	Title:        "title",
	ThumbnailURL: "thumbnailurl",
	Content:      "content",
	Note:         "note",
	VersionName:  "versionname",
	Status:       "status",
	IsAutoSave:   "isautosave",
	CreatedAt:    "createdat",
}

// Columns returns all standard column names
func (t CatalogChapterVersionTable) Columns() []string {
	return []string{
		t.ID, t.ChapterID, t.Title, t.ThumbnailURL, t.Content, t.Note,
		t.VersionName, t.Status, t.IsAutoSave, t.CreatedAt,
	}
}
