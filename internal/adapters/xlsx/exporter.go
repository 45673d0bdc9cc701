// Package xlsx exports a page of employees as an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/csg33k/employee-directory/internal/domain"
)

// SheetName is the single worksheet every export contains.
const SheetName = "Employees"

var columns = []struct {
	header string
	width  float64
}{
	{"ID", 8},
	{"Name", 26},
	{"Email", 34},
	{"Department", 16},
	{"Designation", 32},
	{"Date of Joining", 16},
}

// Exporter implements ports.PageExporter.
type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *Exporter) Extension() string { return "xlsx" }

// Export writes title on the first row, the column headers on the third and
// one row per employee after that.
func (e *Exporter) Export(ctx context.Context, title string, employees []domain.Employee, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetName)
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1E1E1E"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	for i, c := range columns {
		if err := sw.SetColWidth(i+1, i+1, c.width); err != nil {
			return err
		}
	}

	if err := sw.SetRow("A1", []interface{}{title}, excelize.RowOpts{StyleID: titleStyle}); err != nil {
		return err
	}
	headers := make([]interface{}, len(columns))
	for i, c := range columns {
		headers[i] = c.header
	}
	if err := sw.SetRow("A3", headers, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return err
	}

	rowNum := 4
	for i, emp := range employees {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		row := []interface{}{emp.ID, emp.Name, emp.Email, emp.Department, emp.Designation, emp.DateOfJoining.String()}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
		rowNum++
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush stream: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}
