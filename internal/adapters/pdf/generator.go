// Package pdf renders directory data as printable PDF documents: a one-page
// profile sheet per employee and a tabular listing of a result page.
package pdf

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/employee-directory/internal/domain"
)

const footerText = "Generated by Employee Directory"

// Generator implements ports.PageExporter and also renders profile sheets.
type Generator struct {
	now func() time.Time
}

func New() *Generator { return &Generator{now: time.Now} }

func (g *Generator) ContentType() string { return "application/pdf" }
func (g *Generator) Extension() string   { return "pdf" }

func newDocument(orientation string) *fpdf.Fpdf {
	pdf := fpdf.New(orientation, "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")
	return pdf
}

// Profile writes a single-page profile sheet for e to w.
func (g *Generator) Profile(e *domain.Employee, w io.Writer) error {
	pdf := newDocument("P")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	drawProfile(pdf, tr, e, g.now())
	return pdf.Output(w)
}

// Export writes the employees as a table under title. Rows continue onto
// further pages with the header repeated.
func (g *Generator) Export(ctx context.Context, title string, employees []domain.Employee, w io.Writer) error {
	pdf := newDocument("L")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	generated := g.now()

	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "I", 7.5)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(0, 5, footerText+" on "+generated.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
		left, _, _, _ := pdf.GetMargins()
		pdf.SetX(left)
		pdf.CellFormat(0, 5, "Page "+fmt.Sprint(pdf.PageNo())+" of {nb}", "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	cols := []struct {
		label string
		width float64
	}{
		{"Name", 48}, {"Email", 70}, {"Department", 34}, {"Designation", 58}, {"Joined", 25},
	}
	header := func() {
		pdf.SetFillColor(30, 30, 30)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 8.5)
		for _, c := range cols {
			pdf.CellFormat(c.width, 7, c.label, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(employees) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 8, "No employees on this page.", "", 1, "L", false, 0, "")
		return pdf.Output(w)
	}

	header()
	_, pageH := pdf.GetPageSize()
	_, _, _, marginB := pdf.GetMargins()
	rowH := 6.5
	for i, e := range employees {
		if err := ctx.Err(); err != nil {
			return err
		}
		if pdf.GetY()+rowH > pageH-marginB {
			pdf.AddPage()
			header()
		}
		// Alternating row background
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetFont("Helvetica", "", 8.5)
		cells := []string{e.Name, e.Email, e.Department, e.Designation, e.DateOfJoining.String()}
		for j, c := range cols {
			pdf.CellFormat(c.width, rowH, tr(cells[j]), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}

func drawProfile(pdf *fpdf.Fpdf, tr func(string) string, e *domain.Employee, now time.Time) {
	pageW, pageH := pdf.GetPageSize()
	marginL, marginT, marginR, marginB := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// ── Header bar ───────────────────────────────────────────────────────────
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, "EMPLOYEE PROFILE", "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 16

	// ── Identity ─────────────────────────────────────────────────────────────
	pdf.SetXY(marginL, y)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 9, tr(e.Name), "", 1, "L", false, 0, "")
	y += 9
	pdf.SetXY(marginL, y)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(contentW, 6, tr(e.Designation), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	y += 10

	// ── Details box ──────────────────────────────────────────────────────────
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5.5, "DETAILS", "LRT", 1, "L", true, 0, "")
	y += 5.5

	labelW := contentW * 0.3
	rows := [][2]string{
		{"Employee ID", fmt.Sprint(e.ID)},
		{"Email", e.Email},
		{"Department", e.Department},
		{"Designation", e.Designation},
		{"Date of Joining", joinedLine(e.DateOfJoining, now)},
	}
	for i, r := range rows {
		labelBorder, valueBorder := "L", "R"
		// close box
		if i == len(rows)-1 {
			labelBorder, valueBorder = "LB", "RB"
		}
		pdf.SetXY(marginL, y)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 7, r[0], labelBorder, 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-labelW, 7, tr(r[1]), valueBorder, 1, "L", false, 0, "")
		y += 7
	}

	// ── Footer ─────────────────────────────────────────────────────────────────
	pdf.SetXY(marginL, pageH-marginB-6)
	pdf.SetFont("Helvetica", "I", 7.5)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(contentW/2, 5, footerText, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Printed "+now.Format("2006-01-02"), "", 0, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// joinedLine formats a joining date with the tenure up to now,
// e.g. "2023-01-15 (2 years)".
func joinedLine(d domain.Date, now time.Time) string {
	if d.IsZero() {
		return "Unknown"
	}
	years := tenureYears(d.Time, now)
	switch {
	case years < 1:
		return d.String() + " (less than a year)"
	case years == 1:
		return d.String() + " (1 year)"
	default:
		return fmt.Sprintf("%s (%d years)", d, years)
	}
}

func tenureYears(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
