package postgres

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// RunMigrations creates the archive tables if they do not exist yet.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema.sql: %v", err)
	}
	return nil
}
