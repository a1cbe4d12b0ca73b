package schema

// BillingMissionTable represents the 'billing.mission' table
type BillingMissionTable struct {
	Table         string
	ID            string
	Title         string
	ReadThreshold string
	CoinReward    string
	IsActive      string
	CreatedAt     string
	UpdatedAt     string
}

// BillingMission is the schema definition for billing.mission
var BillingMission = BillingMissionTable{
	Table:         "billing.mission",
	ID:            "id",
	Title:         "title",
	ReadThreshold: "readthreshold",
	CoinReward:    "coinreward",
	IsActive:      "isactive",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t BillingMissionTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.ReadThreshold, t.CoinReward, t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
