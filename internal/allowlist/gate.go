package allowlist

import "strings"

// Gate decides whether an authenticated identity may operate the console.
// Membership is an exact, case-sensitive match against the configured set.
type Gate struct {
	members map[string]struct{}
}

// NewGate builds a gate from a comma-separated email list. Blank entries are
// dropped; surrounding whitespace on each entry is trimmed. An empty list
// yields a gate that denies everyone.
func NewGate(raw string) *Gate {
	members := make(map[string]struct{})
	for _, entry := range strings.Split(raw, ",") {
		email := strings.TrimSpace(entry)
		if email == "" {
			continue
		}
		members[email] = struct{}{}
	}
	return &Gate{members: members}
}

// IsAllowed reports whether the email is on the allowlist.
func (g *Gate) IsAllowed(email string) bool {
	if g == nil || len(g.members) == 0 {
		return false
	}
	_, ok := g.members[email]
	return ok
}

// Size returns the number of allowlisted operators.
func (g *Gate) Size() int {
	if g == nil {
		return 0
	}
	return len(g.members)
}
