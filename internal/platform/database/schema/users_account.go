package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table           string
	ID              string
	Username        string
	Email           string
	Password        string
	Role            string
	IsVerified      string
	IsActive        string
	LastLoginAt     string
	DisplayName     string
	AvatarURL       string
	Bio             string
	Website         string
	CoinBalance     string
	GoldBalance     string
	LastCheckinAt   string
	MutedUntil      string
	RestrictedUntil string
	CreatedAt       string
	UpdatedAt       string
	DeletedAt       string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:           "users.account",
	ID:              "id",
	Username:        "username",
	Email:           "email",
	Password:        "passwordhash",
	Role:            "role",
	IsVerified:      "isverified",
	IsActive:        "isactive",
	LastLoginAt:     "lastloginat",
	DisplayName:     "displayname",
	AvatarURL:       "avatarurl",
	Bio:             "bio",
	Website:         "website",
	CoinBalance:     "coinbalance",
	GoldBalance:     "goldbalance",
	LastCheckinAt:   "lastcheckinat",
	MutedUntil:      "muteduntil",
	RestrictedUntil: "restricteduntil",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
	DeletedAt:       "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Role, t.IsVerified,
		t.IsActive, t.LastLoginAt, t.DisplayName, t.AvatarURL, t.Bio, t.Website,
		t.CoinBalance, t.GoldBalance, t.LastCheckinAt, t.MutedUntil, t.RestrictedUntil,
		t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
