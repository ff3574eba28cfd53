// Package policy centralizes the authorization and status-transition rules
// that every entity handler consults. There is one access rule for the whole
// application: the same check applies to a trip and to everything under it.
package policy

// Principal is the acting user as established by the auth middleware.
type Principal struct {
	ID       uint
	Role     string
	FamilyID *uint
}

// CanAccess decides whether the principal may act on a resource owned by
// ownerID, whose owning user belongs to ownerFamilyID (nil when the owner has
// no family). Rules are evaluated in order, first match wins:
//
//  1. admins may act on anything
//  2. owners may act on their own resources
//  3. users sharing a family with the owner may view and modify the
//     owner's trips and their children
func CanAccess(p Principal, ownerID uint, ownerFamilyID *uint) bool {
	if p.Role == "admin" {
		return true
	}

	if p.ID == ownerID {
		return true
	}

	if p.FamilyID != nil && ownerFamilyID != nil && *p.FamilyID == *ownerFamilyID {
		return true
	}

	return false
}
