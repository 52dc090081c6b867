package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/Aleguiojo777/Teacher-Portal/core/account"
	sqlxrepos "github.com/Aleguiojo777/Teacher-Portal/storage/database/sqlx"
	testutil "github.com/Aleguiojo777/Teacher-Portal/tests"
)

var acctRepo account.Repository

func setup(t *testing.T) *commandLine {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	acctRepo = sqlxrepos.NewAccountRepository(db)

	// start CLI
	return &commandLine{
		db:       db,
		acctRepo: acctRepo,
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
	extra   interface{}
}

// mockPasswords feeds readPasswordFunc one entry per prompt.
type mockPasswords struct {
	pwds []string
}

func mockReadPassword(m mockPasswords) func(int) ([]byte, error) {
	i := 0
	return func(fd int) ([]byte, error) {
		if i >= len(m.pwds) {
			return nil, nil
		}
		pwd := m.pwds[i]
		i++
		return []byte(pwd), nil
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "up", args: []string{"migrate"}},
		{name: "up is idempotent", args: []string{"migrate"}},
		{name: "status", args: []string{"migrate", "status"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_createMainAdmin(t *testing.T) {
	cli := setup(t)

	nameEmail := []string{"createmainadmin", "-name", "Head Admin", "-email", "head@test.cd"}

	tests := []cliTest{
		{name: "name & email required", args: []string{"createmainadmin"}, wantErr: errHelp},
		{name: "email required", args: []string{"createmainadmin", "-name", "Head Admin"}, wantErr: errHelp},
		{name: "password required", args: nameEmail, wantErr: errHelp},
		{name: "password too short", args: nameEmail, extra: mockPasswords{pwds: []string{"short"}}, wantErr: errPasswordTooShort},
		{name: "passwords must match", args: nameEmail, extra: mockPasswords{pwds: []string{"Secret123!", "Secret456!"}}, wantErr: errPasswordMismatch},
		{name: "created", args: nameEmail, extra: mockPasswords{pwds: []string{"Secret123!", "Secret123!"}}},
		{
			name: "only one main admin", args: []string{"createmainadmin", "-name", "Usurper", "-email", "other@test.cd"},
			extra: mockPasswords{pwds: []string{"Secret123!", "Secret123!"}}, wantErr: errMainAdminExists,
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = mockReadPassword(mockPasswords{})
		if m, ok := tt.extra.(mockPasswords); ok {
			readPasswordFunc = mockReadPassword(m)
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	acct, err := acctRepo.GetMainAccount(context.Background())
	if err != nil {
		t.Fatalf("GetMainAccount() failed: %v", err)
	}
	if acct.FullName != "Head Admin" || acct.Email != "head@test.cd" {
		t.Errorf("main admin = %+v", acct)
	}
	if !acct.IsAdmin || !acct.IsMain {
		t.Error("main admin must have isAdmin and isMain set")
	}
	if err = acct.CheckPassword("Secret123!"); err != nil {
		t.Error("password was not set")
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	acct := testutil.CreateAccount(t, acctRepo, "Miss Teacher", "teach@test.cd", "Secret123!", false, false)

	tests := []cliTest{
		{name: "email required", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "teach@test.cd"}, wantErr: errHelp},
		{
			name: "account not found", args: []string{"resetpassword", "-email", "ghost@test.cd"},
			extra: mockPasswords{pwds: []string{"NewSecret1!"}}, wantErr: account.ErrNotFound,
		},
		{name: "reset", args: []string{"resetpassword", "-email", "teach@test.cd"}, extra: mockPasswords{pwds: []string{"NewSecret1!"}}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = mockReadPassword(mockPasswords{})
		if m, ok := tt.extra.(mockPasswords); ok {
			readPasswordFunc = mockReadPassword(m)
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := acctRepo.GetAccountByID(context.Background(), acct.ID)
				if err != nil {
					t.Fatalf("GetAccountByID() failed: %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, acct.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
