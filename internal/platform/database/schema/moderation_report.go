package schema

// ModerationReportTable represents the 'moderation.report' table
type ModerationReportTable struct {
	Table        string
	ID           string
	ReporterID   string
	TargetUserID string
	ChapterID    string
	Reason       string
	Status       string
	CreatedAt    string
}

// ModerationReport is the schema definition for moderation.report
var ModerationReport = ModerationReportTable{
	Table:        "moderation.report",
	ID:           "id",
	ReporterID:   "reporterid",
	TargetUserID: "targetuserid",
	ChapterID:    "chapterid",
	Reason:       "reason",
	Status:       "status",
	CreatedAt:    "createdat",
}

// Columns returns all standard column names
func (t ModerationReportTable) Columns() []string {
	return []string{
		t.ID, t.ReporterID, t.TargetUserID, t.ChapterID, t.Reason, t.Status, t.CreatedAt,
	}
}
