package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRBACService_Authorize(t *testing.T) {
	rbac, err := NewRBACService()
	require.NoError(t, err)

	tests := []struct {
		name    string
		isStaff bool
		object  string
		action  string
		want    bool
	}{
		{"member reads invoices", false, ObjectInvoices, ActionRead, true},
		{"member cannot write invoices", false, ObjectInvoices, ActionWrite, false},
		{"member cannot list users", false, ObjectUsers, ActionRead, false},
		{"member edits own profile", false, ObjectProfile, ActionWrite, true},
		{"member reads finance", false, ObjectFinance, ActionRead, true},
		{"staff writes services", true, ObjectServices, ActionWrite, true},
		{"staff manages users", true, ObjectUsers, ActionWrite, true},
		{"staff reads settings", true, ObjectSettings, ActionRead, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := rbac.Authorize(tt.isStaff, tt.object, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}
