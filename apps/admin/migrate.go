package main

import (
	"fmt"

	"github.com/Aleguiojo777/Teacher-Portal/storage/database"
)

func (cli *commandLine) migrate(args []string) error {
	if len(args) > 0 && args[0] == "status" {
		pending, err := database.PendingMigrations(cli.db)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("database is up to date")
			return nil
		}
		fmt.Println("pending migrations:")
		for _, name := range pending {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}
	return database.Migrate(cli.db)
}
