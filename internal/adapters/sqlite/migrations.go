package sqlite

import (
	"context"
	"database/sql"
)

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    department TEXT NOT NULL,
    designation TEXT NOT NULL,
    date_of_joining TEXT NOT NULL
);
`

const createNameIndex = `CREATE INDEX IF NOT EXISTS idx_employees_name ON employees (name);`

const createDepartmentIndex = `CREATE INDEX IF NOT EXISTS idx_employees_department ON employees (department);`

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createEmployeesTable, createNameIndex, createDepartmentIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
