package main

import (
	"log"

	"github.com/urfave/cli/v2"
	"github.com/vinopick/backend/internal/entity"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadDatabase()

	if err := entity.MigrateTable(s.ctx); err != nil {
		return err
	}

	log.Println("Migrated all tables")
	return nil
}
