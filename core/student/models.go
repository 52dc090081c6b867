package student

import (
	"time"

	"github.com/Aleguiojo777/Teacher-Portal/core"
	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

// Student is a roster entry. CreatedBy is the owning account; it is nil only
// on legacy rows created before ownership tracking existed.
type Student struct {
	ID        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	ContactNo string    `json:"contactNo"`
	Course    string    `json:"course"`
	Section   string    `json:"section"`
	CreatedBy *int      `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"` // UTC
}

// CanAccess reports whether requester may read or mutate s: admins always,
// teachers only on students they created.
func CanAccess(requester account.Account, s Student) bool {
	if requester.IsAdmin {
		return true
	}
	return s.CreatedBy != nil && *s.CreatedBy == requester.ID
}

// Input carries a full roster record. Unlike accounts there are no patch
// semantics: every mutation requires all five business fields.
type Input struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	ContactNo string `json:"contactNo" validate:"required"`
	Course    string `json:"course" validate:"required"`
	Section   string `json:"section" validate:"required"`
}

func (in *Input) Validate() error {
	in.FirstName = core.CleanString(in.FirstName)
	in.LastName = core.CleanString(in.LastName)
	in.ContactNo = core.CleanString(in.ContactNo)
	in.Course = core.CleanString(in.Course)
	in.Section = core.CleanString(in.Section)
	return core.Validate.Struct(in)
}
