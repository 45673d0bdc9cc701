package sqlite

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/csg33k/employee-directory/internal/domain"
)

//go:embed seed.json
var seedJSON []byte

// SampleEmployees returns the bundled sample directory.
func SampleEmployees() ([]domain.Employee, error) {
	var out []domain.Employee
	if err := json.Unmarshal(seedJSON, &out); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return out, nil
}

// Seed loads the sample employees. Without replace it only fills an empty
// table; with replace existing rows are deleted first. It returns how many
// rows were inserted.
func (r *Repository) Seed(ctx context.Context, replace bool) (int, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 && !replace {
		return 0, nil
	}
	employees, err := SampleEmployees()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if err := r.DeleteAll(ctx); err != nil {
			return 0, err
		}
	}
	if err := r.Insert(ctx, employees); err != nil {
		return 0, err
	}
	return len(employees), nil
}
