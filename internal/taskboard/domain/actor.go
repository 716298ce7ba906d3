package domain

// Actor is the authenticated caller every service operation is evaluated
// against. It is immutable once built.
type Actor struct {
	UserID  string
	TokenID string
	Roles   RoleSet
}

func NewActor(userID, tokenID string, roles []string) Actor {
	return Actor{UserID: userID, TokenID: tokenID, Roles: ParseRoleSet(roles)}
}

func (a Actor) IsAdmin() bool { return a.Roles.Has(RoleAdmin) }
