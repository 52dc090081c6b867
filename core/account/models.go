package account

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Aleguiojo777/Teacher-Portal/core"
)

// Account is a login identity: either an administrator or a teacher.
// At most one account is the main administrator; that account cannot be
// deleted and can only be edited by itself.
type Account struct {
	ID           int       `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"isAdmin"`
	IsMain       bool      `json:"isMain"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

func (a *Account) IsTeacher() bool {
	return !a.IsAdmin
}

// NewAccount contains information needed to create a new Account.
// Created accounts are never the main administrator; that flag is only ever
// set by the out-of-band provisioning command.
type NewAccount struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (na *NewAccount) Validate(svc *Service) error {
	na.FullName = core.CleanString(na.FullName)
	na.Email = core.CleanString(na.Email) // emails are case-sensitive as stored

	if err := core.Validate.Struct(na); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(na.Email)
}

// UpdateAccount defines what information may be provided to modify an existing
// Account. All fields are optional; absent fields keep their current value.
// IsMain cannot be changed through this path.
type UpdateAccount struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	IsAdmin  *bool  `json:"isAdmin"`
}

func (ua *UpdateAccount) Validate(origAcct Account, svc *Service) error {
	if name := core.CleanString(ua.FullName); name != "" {
		ua.FullName = name
	} else {
		ua.FullName = origAcct.FullName
	}

	if email := core.CleanString(ua.Email); email != "" {
		ua.Email = email
	} else {
		ua.Email = origAcct.Email
	}

	if err := core.Validate.Struct(ua); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ua.Email, origAcct)
}
