package schema

// CatalogVolumeTable represents the 'catalog.volume' table
type CatalogVolumeTable struct {
	Table        string
	ID           string
	SeriesID     string
	VolumeNumber string
	Name         string
	Introduction string
	CreatedAt    string
	UpdatedAt    string
}

// CatalogVolume is the schema definition for catalog.volume
var CatalogVolume = CatalogVolumeTable{
	Table:        "catalog.volume",
	ID:           "id",
	SeriesID:     "seriesid",
	VolumeNumber: "volumenumber",
	Name:         "name",
	Introduction: "introduction",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t CatalogVolumeTable) Columns() []string {
	return []string{
		t.ID, t.SeriesID, t.VolumeNumber, t.Name, t.Introduction, t.CreatedAt, t.UpdatedAt,
	}
}
