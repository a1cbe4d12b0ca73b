package schema

// BillingGoldPackTable represents the 'billing.goldpack' table
type BillingGoldPackTable struct {
	Table      string
	ID         string
	Name       string
	GoldAmount string
	Price      string
	IsActive   string
	CreatedAt  string
	UpdatedAt  string
}

// BillingGoldPack is the schema definition for billing.goldpack
var BillingGoldPack = BillingGoldPackTable{
	Table:      "billing.goldpack",
	ID:         "id",
	Name:       "name",
	GoldAmount: "goldamount",
	Price:      "price",
	IsActive:   "isactive",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t BillingGoldPackTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.GoldAmount, t.Price, t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
