package models

// Member is a guild member as seen by the raid coordinator
type Member struct {
	// ID is the platform user ID
	ID string

	// Name is the display name (nickname when set)
	Name string

	// Bot is true for bot accounts
	Bot bool

	// RoleIDs are the roles the member holds in the guild
	RoleIDs []string

	// Boosting is true when the member boosts the guild
	Boosting bool
}

// HasAnyRole reports whether the member holds at least one of the given roles
func (m *Member) HasAnyRole(roleIDs []string) bool {
	if m == nil {
		return false
	}
	for _, want := range roleIDs {
		for _, have := range m.RoleIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}
