package student

import (
	"testing"

	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

func TestCanAccess(t *testing.T) {
	admin := account.Account{ID: 1, IsAdmin: true}
	mainAdmin := account.Account{ID: 2, IsAdmin: true, IsMain: true}
	owner := account.Account{ID: 3}
	other := account.Account{ID: 4}

	ownerID := owner.ID
	owned := Student{ID: 10, CreatedBy: &ownerID}
	legacy := Student{ID: 11} // pre-ownership row, CreatedBy is nil

	tests := []struct {
		name      string
		requester account.Account
		student   Student
		want      bool
	}{
		{name: "admin accesses any student", requester: admin, student: owned, want: true},
		{name: "admin accesses legacy student", requester: admin, student: legacy, want: true},
		{name: "main admin accesses any student", requester: mainAdmin, student: owned, want: true},
		{name: "teacher accesses own student", requester: owner, student: owned, want: true},
		{name: "teacher accesses other's student", requester: other, student: owned, want: false},
		{name: "teacher accesses legacy student", requester: owner, student: legacy, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccess(tt.requester, tt.student); got != tt.want {
				t.Errorf("CanAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}
