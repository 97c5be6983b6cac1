package session

// Allowlist is the static set of user IDs granted admin affordances.
type Allowlist map[string]struct{}

// NewAllowlist builds an allowlist from ids, ignoring empty entries.
func NewAllowlist(ids []string) Allowlist {
	a := make(Allowlist, len(ids))
	for _, id := range ids {
		if id != "" {
			a[id] = struct{}{}
		}
	}
	return a
}

// IsAdmin reports whether uid is on the list. A nil list has no admins.
func (a Allowlist) IsAdmin(uid string) bool {
	if uid == "" {
		return false
	}
	_, ok := a[uid]
	return ok
}
