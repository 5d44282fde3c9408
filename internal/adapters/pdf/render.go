package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"wanderplan/internal/domain"
)

// Render lays an itinerary out on A4 pages: header, overview, one section per day, budget and tips.
func Render(it domain.Itinerary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252 for the core fonts
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(tr("Itinerary: "+it.Destination), false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 20)
	pdf.MultiCell(0, 10, tr(it.Destination), "", "L", false)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s to %s", it.StartDate, it.EndDate)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if it.Degraded() {
		pdf.SetTextColor(180, 30, 30)
		pdf.MultiCell(0, 6, tr("Note: "+it.Error), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	section(pdf, tr, "Overview")
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, tr(it.Overview), "", "L", false)
	pdf.Ln(3)

	for _, d := range it.Days {
		head := fmt.Sprintf("Day %d - %s", d.Day, d.Date)
		if d.StartTime != "" && d.EndTime != "" {
			head += fmt.Sprintf(" (%s - %s)", d.StartTime, d.EndTime)
		}
		section(pdf, tr, head)
		for _, a := range d.Activities {
			activity(pdf, tr, a)
		}
		pdf.Ln(2)
	}

	if b := it.Budget.String(); b != "" {
		section(pdf, tr, "Budget")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(b), "", "L", false)
		pdf.Ln(3)
	}

	if len(it.Tips) > 0 {
		section(pdf, tr, "Tips")
		pdf.SetFont("Arial", "", 11)
		for _, tip := range it.Tips {
			pdf.MultiCell(0, 6, tr("- "+tip), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(235, 240, 250)
	pdf.CellFormat(0, 9, tr(title), "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

func activity(pdf *gofpdf.Fpdf, tr func(string) string, a domain.Activity) {
	line := a.Name
	if a.Time != "" {
		line = a.Time + "  " + line
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s [%s]", line, a.Category)), "", "L", false)

	pdf.SetFont("Arial", "", 10)
	if a.Description != "" {
		pdf.MultiCell(0, 5, tr(a.Description), "", "L", false)
	}
	var meta []string
	for _, kv := range [][2]string{{"Duration", a.Duration}, {"Cost", a.Cost}, {"Location", a.Location}} {
		if kv[1] != "" {
			meta = append(meta, kv[0]+": "+kv[1])
		}
	}
	if len(a.Tags) > 0 {
		meta = append(meta, "Tags: "+strings.Join(a.Tags, ", "))
	}
	if len(meta) > 0 {
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, tr(strings.Join(meta, " | ")), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(1)
}
