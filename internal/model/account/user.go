package account

// User mirrors the backend's user record. The client treats it as a cached
// snapshot; the backend copy stays authoritative.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Plan     string `json:"plan,omitempty"`
	Credits  int    `json:"credits,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// UserPatch carries a partial update; nil fields are left untouched.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Plan     *string `json:"plan,omitempty"`
	Credits  *int    `json:"credits,omitempty"`
}

// Apply merges the patch into a copy of the user and returns it.
func (p UserPatch) Apply(u User) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Plan != nil {
		u.Plan = *p.Plan
	}
	if p.Credits != nil {
		u.Credits = *p.Credits
	}
	return u
}
