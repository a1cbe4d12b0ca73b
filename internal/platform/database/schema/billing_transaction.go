package schema

// BillingTransactionTable represents the 'billing.transaction' table
type BillingTransactionTable struct {
	Table     string
	ID        string
	UserID    string
	Currency  string
	Type      string
	Amount    string
	Reason    string
	ChapterID string
	CreatedAt string
}

// BillingTransaction is the schema definition for billing.transaction
var BillingTransaction = BillingTransactionTable{
	Table:     "billing.transaction",
	ID:        "id",
	UserID:    "userid",
	Currency:  "currency",
	Type:      "type",
	Amount:    "amount",
	Reason:    "reason",
	ChapterID: "chapterid",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t BillingTransactionTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Currency, t.Type, t.Amount, t.Reason, t.ChapterID, t.CreatedAt,
	}
}
