package schema

// UserChapterUnlockTable represents the 'users.chapterunlock' table
type UserChapterUnlockTable struct {
	Table      string
	UserID     string
	ChapterID  string
	UnlockedAt string
}

// UserChapterUnlock is the schema definition for users.chapterunlock
var UserChapterUnlock = UserChapterUnlockTable{
	Table:      "users.chapterunlock",
	UserID:     "userid",
	ChapterID:  "chapterid",
	UnlockedAt: "unlockedat",
}

// Columns returns all standard column names
func (t UserChapterUnlockTable) Columns() []string {
	return []string{t.UserID, t.ChapterID, t.UnlockedAt}
}
