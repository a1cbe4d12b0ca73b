package schema

// CatalogReadingAnalyticTable represents the 'catalog.readinganalytic' table
type CatalogReadingAnalyticTable struct {
	Table     string
	ID        string
	ChapterID string
	ReadCount string
	SampledAt string
}

// CatalogReadingAnalytic is the schema definition for catalog.readinganalytic
var CatalogReadingAnalytic = CatalogReadingAnalyticTable{
	Table:     "catalog.readinganalytic",
	ID:        "id",
	ChapterID: "chapterid",
	ReadCount: "readcount",
	SampledAt: "sampledat",
}

// Columns returns all standard column names
func (t CatalogReadingAnalyticTable) Columns() []string {
	return []string{t.ID, t.ChapterID, t.ReadCount, t.SampledAt}
}
