package main

import (
	"context"
	"time"

	"github.com/Aleguiojo777/Teacher-Portal/core"
	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

// createMainAdmin provisions the single main administrator account.
// It refuses to run when one already exists.
func (cli *commandLine) createMainAdmin(name, email, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email)

	if _, err := cli.acctRepo.GetMainAccount(ctx); err == nil {
		return errMainAdminExists
	} else if err != account.ErrNotFound {
		return err
	}

	acct := account.Account{
		FullName:  name,
		Email:     email,
		IsAdmin:   true,
		IsMain:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := acct.SetPassword(pwd); err != nil {
		return err
	}
	_, err := cli.acctRepo.CreateAccount(ctx, acct)
	return err
}
