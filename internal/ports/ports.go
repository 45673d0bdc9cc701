package ports

import (
	"context"
	"io"

	"github.com/csg33k/employee-directory/internal/domain"
)

// EmployeeAPI is the read side of the remote employee service.
type EmployeeAPI interface {
	// ListEmployees returns one page of employees matching p.Search.
	ListEmployees(ctx context.Context, p domain.ListParams) (*domain.EmployeePage, error)
	// GetEmployee returns domain.ErrNotFound when id does not exist.
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
}

// EmployeeStore backs the local development API.
type EmployeeStore interface {
	Search(ctx context.Context, p domain.ListParams) ([]domain.Employee, error)
	Get(ctx context.Context, id int64) (*domain.Employee, error)
	Ping(ctx context.Context) error
}

// ProfileRenderer writes a printable profile of one employee.
type ProfileRenderer interface {
	Profile(e *domain.Employee, w io.Writer) error
}

// PageExporter writes a page of employees as a downloadable document.
type PageExporter interface {
	Export(ctx context.Context, title string, employees []domain.Employee, w io.Writer) error
	// ContentType is the MIME type of the written document.
	ContentType() string
	// Extension is the file extension, without the dot.
	Extension() string
}
