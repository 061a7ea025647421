package domain

// Connection is one linked external financial institution for a user. The
// engine reads connections from the registry and never mutates them.
//
// AccessToken is the opaque credential for the banking API. It must never
// leave the fetch boundary: it is excluded from JSON, never logged, and never
// included in error messages.
type Connection struct {
	ID              string `json:"connection_id"`
	UserID          string `json:"user_id"`
	InstitutionName string `json:"institution_name"`
	InstitutionID   string `json:"institution_id"`
	AccessToken     string `json:"-"`
}

// SubAccount is one account under a connection, used only to enrich
// transactions with a display label and mask. It is never returned standalone.
type SubAccount struct {
	AccountID string
	Label     string
	Mask      *string
}
