package schema

// BillingPurchaseOrderTable represents the 'billing.purchaseorder' table
type BillingPurchaseOrderTable struct {
	Table         string
	ID            string
	UserID        string
	GoldPackID    string
	PriceSnapshot string
	Status        string
	CompletedAt   string
	CreatedAt     string
}

// BillingPurchaseOrder is the schema definition for billing.purchaseorder
var BillingPurchaseOrder = BillingPurchaseOrderTable{
	Table:         "billing.purchaseorder",
	ID:            "id",
	UserID:        "userid",
	GoldPackID:    "goldpackid",
	PriceSnapshot: "pricesnapshot",
	Status:        "status",
	CompletedAt:   "completedat",
	CreatedAt:     "createdat",
}

// Columns returns all standard column names
func (t BillingPurchaseOrderTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.GoldPackID, t.PriceSnapshot, t.Status, t.CompletedAt, t.CreatedAt,
	}
}
