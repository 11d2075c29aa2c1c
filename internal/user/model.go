package user

// RoleUser is assigned to every account at creation; roles are a
// space-delimited token string, e.g. "ROLE_USER ROLE_CUSTOMER".
const RoleUser = "ROLE_USER"

// AppUser is the persisted shape of an account.
type AppUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Password string `json:"-"` // bcrypt hash, never exposed in JSON
	Email    string `json:"email"`
	Roles    string `json:"roles"`
	Enabled  bool   `json:"enabled"`
}
