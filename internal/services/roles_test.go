package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jvidalgz/go-gympulse/internal/domain"
)

func TestAssignRoles(t *testing.T) {
	tests := []struct {
		name       string
		senderRole string
		wantStaff  uint
	}{
		{"admin sender takes staff side", domain.RoleAdmin, 10},
		{"creator sender takes staff side", domain.RoleCreator, 10},
		{"monitor sender takes staff side", domain.RoleMonitor, 10},
		{"member sender yields staff side", domain.RoleMember, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &domain.User{ID: 10, Role: tt.senderRole}
			assign := AssignRoles(sender, 20)

			require.Equal(t, tt.wantStaff, assign.StaffID)
			if tt.wantStaff == sender.ID {
				require.Equal(t, uint(20), assign.MemberID)
			} else {
				require.Equal(t, sender.ID, assign.MemberID)
			}
		})
	}
}
