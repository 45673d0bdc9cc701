package domain

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format of DateOfJoining ("2023-01-15").
const DateLayout = "2006-01-02"

// ErrNotFound is returned by the API adapters when an employee does not exist.
var ErrNotFound = errors.New("employee not found")

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// NewDate builds a Date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "YYYY-MM-DD" and, for backends that serialise full
// timestamps, RFC 3339.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(strings.Trim(s, `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Employee is one directory record as served by the backend.
type Employee struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
	DateOfJoining Date   `json:"date_of_joining"`
}

// ListParams are the query parameters of the employee listing endpoint.
type ListParams struct {
	Search string
	Limit  int
	Offset int
}

// TotalUnknown marks an EmployeePage whose backend did not report a total.
const TotalUnknown = -1

// EmployeePage is one page of listing results.
type EmployeePage struct {
	Items []Employee
	// Total is the number of matching records across all pages, or
	// TotalUnknown.
	Total int
}
