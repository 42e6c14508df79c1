package domain

import "time"

// Claims is the identity snapshot carried by a verified bearer token. Email
// and role reflect the account at issuance time and may be stale.
type Claims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdministrator reports whether the claims carry the administrator role.
func (c *Claims) IsAdministrator() bool {
	return c != nil && c.Role == RoleAdministrator
}
