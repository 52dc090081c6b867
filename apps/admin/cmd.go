package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/Aleguiojo777/Teacher-Portal/core/account"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp             = errors.New("help provided")
	errPasswordTooShort = errors.New("password must be at least 8 characters")
	errPasswordMismatch = errors.New("passwords do not match")
	errMainAdminExists  = errors.New("a main administrator already exists")
)

type commandLine struct {
	db       *sqlx.DB
	acctRepo account.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate [status]                     - apply pending migrations, or list them")
	fmt.Println("  createmainadmin -name NAME -email EMAIL - create the main administrator account")
	fmt.Println("  resetpassword -email EMAIL           - reset an account's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	createCmd := flag.NewFlagSet("createmainadmin", flag.ExitOnError)
	createName := createCmd.String("name", "", "The administrator's full name.")
	createEmail := createCmd.String("email", "", "The administrator's email. The password will be prompted next.")

	resetCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetEmail := resetCmd.String("email", "", "The account's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if err := migrateCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.migrate(migrateCmd.Args())

	case "createmainadmin":
		if err := createCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createName == "" || *createEmail == "" {
			createCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword(createCmd, true /* confirm */)
		if err != nil {
			return err
		}
		return cli.createMainAdmin(*createName, *createEmail, pwd)

	case "resetpassword":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetEmail == "" {
			resetCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword(resetCmd, false)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetEmail, pwd)

	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword(cmd *flag.FlagSet, confirm bool) (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", errHelp
	}
	if len(pwd) < 8 {
		return "", errPasswordTooShort
	}

	if confirm {
		fmt.Print("Confirm password:")
		pwd2, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return "", err
		}
		if !bytes.Equal(pwd, pwd2) {
			return "", errPasswordMismatch
		}
	}
	return string(pwd), nil
}
