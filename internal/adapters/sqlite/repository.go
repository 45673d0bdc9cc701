package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/csg33k/employee-directory/internal/domain"
)

// driverName is go-sqlite3 with a fold(text) function that lowercases with
// Go's Unicode rules. SQLite's own lower() only knows ASCII.
const driverName = "sqlite3_directory"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

// Repository is the employee store behind the development API.
type Repository struct {
	db *sql.DB
}

// New opens the SQLite database at dsn and brings its schema up to date.
func New(ctx context.Context, dsn string) (*Repository, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open(driverName, dsn+sep+"_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// ── Queries ──────────────────────────────────────────────────────────────────

// Search returns one page of employees ordered by name. The term is split on
// whitespace and every keyword must appear in the name or the department.
func (r *Repository) Search(ctx context.Context, p domain.ListParams) ([]domain.Employee, error) {
	var (
		where []string
		args  []any
	)
	for _, kw := range strings.Fields(strings.ToLower(p.Search)) {
		pattern := "%" + escapeLike(kw) + "%"
		where = append(where, `(fold(name) LIKE ? ESCAPE '\' OR fold(department) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	q := `SELECT id, name, email, department, designation, date_of_joining FROM employees`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY name, id LIMIT ? OFFSET ?"
	args = append(args, p.Limit, p.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, department, designation, date_of_joining
		FROM employees WHERE id=?`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return e, err
}

// Count returns how many employees are stored.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n)
	return n, err
}

// ── Writes (seeding only) ────────────────────────────────────────────────────

// Insert adds employees in one transaction and fills in their ids.
func (r *Repository) Insert(ctx context.Context, employees []domain.Employee) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO employees (name, email, department, designation, date_of_joining)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range employees {
		e := &employees[i]
		res, err := stmt.ExecContext(ctx, e.Name, e.Email, e.Department, e.Designation, e.DateOfJoining.String())
		if err != nil {
			return fmt.Errorf("insert %s: %w", e.Email, err)
		}
		e.ID, _ = res.LastInsertId()
	}
	return tx.Commit()
}

// DeleteAll empties the employees table and restarts its ids at 1.
func (r *Repository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM employees`); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'employees'`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner) (*domain.Employee, error) {
	var (
		e      domain.Employee
		joined sql.NullString
	)
	if err := s.Scan(&e.ID, &e.Name, &e.Email, &e.Department, &e.Designation, &joined); err != nil {
		return nil, err
	}
	if joined.Valid && joined.String != "" {
		d, err := domain.ParseDate(joined.String)
		if err != nil {
			return nil, fmt.Errorf("employee %d date_of_joining %q: %w", e.ID, joined.String, err)
		}
		e.DateOfJoining = d
	}
	return &e, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
