package domain

import (
	"strings"
	"time"
)

// Seeded role names.
const (
	RoleNameAdmin   = "admin"
	RoleNameUser    = "user"
	RoleNameManager = "manager"
)

type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoleSet is the set of roles an actor holds, resolved once per request.
type RoleSet uint8

const (
	RoleAdmin RoleSet = 1 << iota
	RoleUser
	RoleManager
)

var roleBits = []struct {
	name string
	bit  RoleSet
}{
	{RoleNameAdmin, RoleAdmin},
	{RoleNameUser, RoleUser},
	{RoleNameManager, RoleManager},
}

// ParseRoleSet maps role names to a RoleSet. Unknown names are ignored so a
// role added to the database cannot widen anyone's access by accident.
func ParseRoleSet(names []string) RoleSet {
	var set RoleSet
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		for _, rb := range roleBits {
			if rb.name == n {
				set |= rb.bit
			}
		}
	}
	return set
}

func (s RoleSet) Has(r RoleSet) bool { return r != 0 && s&r == r }

// Names lists the roles in s in a stable order.
func (s RoleSet) Names() []string {
	names := make([]string, 0, len(roleBits))
	for _, rb := range roleBits {
		if s&rb.bit != 0 {
			names = append(names, rb.name)
		}
	}
	return names
}

func (s RoleSet) String() string { return strings.Join(s.Names(), ",") }
