package domain

import (
	"slices"
	"time"
)

type User struct {
	ID        string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// Subscriptions maps a role to the broadcast tokens its holders receive.
type Subscriptions map[Role][]string

// DefaultPrincipalToken is the broadcast channel every principal reads.
const DefaultPrincipalToken = "admin"

// DefaultSubscriptions subscribes principals to the admin channel.
func DefaultSubscriptions() Subscriptions {
	return Subscriptions{RolePrincipal: {DefaultPrincipalToken}}
}

// TokensFor returns the broadcast tokens for role; nil when none.
func (s Subscriptions) TokensFor(role Role) []string {
	if s == nil {
		return nil
	}
	return s[role]
}

// With returns a copy of s in which role also reads token.
func (s Subscriptions) With(role Role, token string) Subscriptions {
	out := make(Subscriptions, len(s)+1)
	for r, tokens := range s {
		out[r] = slices.Clone(tokens)
	}
	if token != "" && !slices.Contains(out[role], token) {
		out[role] = append(out[role], token)
	}
	return out
}

// IsToken reports whether id names a broadcast channel of any role. Such an
// id can never belong to a user, or that user would match every broadcast.
func (s Subscriptions) IsToken(id string) bool {
	for _, tokens := range s {
		if slices.Contains(tokens, id) {
			return true
		}
	}
	return false
}
