package main

import (
	"context"

	"github.com/Aleguiojo777/Teacher-Portal/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()

	acct, err := cli.acctRepo.GetAccountByEmail(ctx, core.CleanString(email))
	if err != nil {
		return err
	}
	if err := acct.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.acctRepo.UpdateAccount(ctx, acct, nil)
	return err
}
