// File: internal/services/roles.go
package services

import "github.com/jvidalgz/go-gympulse/internal/domain"

// RoleAssignment fixes which participant of a conversation pair sits
// on the staff side and which on the member side.
type RoleAssignment struct {
	StaffID  uint
	MemberID uint
}

// AssignRoles decides the sides for a conversation between sender and
// the user identified by otherID. An elevated sender takes the staff
// side; otherwise the other party is assumed to be the staff member
// being contacted. Every place that needs this branching goes through
// here, so both directions of a pair always resolve the same way.
func AssignRoles(sender *domain.User, otherID uint) RoleAssignment {
	if sender.IsStaff() {
		return RoleAssignment{StaffID: sender.ID, MemberID: otherID}
	}
	return RoleAssignment{StaffID: otherID, MemberID: sender.ID}
}
