package reportsrv

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/talentgrid/ctms/tracking/report"
)

const (
	pdfCompanyName = "TalentGrid Recruiters (PVT) Ltd."
	pdfCompanyLine = "45/2, Marine Drive, Colombo 03, Sri Lanka. | hr@talentgrid.io"
	pdfFooterLine  = "Generated by Candidate Tracking Management System"

	pdfHeaderRowHeight = 25.0
	pdfDataRowHeight   = 35.0
	pdfTableTop        = 125.0
	pdfBottomMargin    = 100.0
)

var (
	candidateColumns = []pdfColumn{
		{"No", 25}, {"Name", 80}, {"Email", 130}, {"Phone", 60},
		{"Position", 90}, {"Status", 60}, {"Source", 55},
	}
	interviewColumns = []pdfColumn{
		{"No", 25}, {"Candidate", 90}, {"Email", 110}, {"Phone", 60},
		{"Date", 90}, {"Type", 70}, {"Status", 55},
	}
)

type pdfColumn struct {
	Title string
	Width float64
}

// pdfDocument renders a tabular report onto A4 pages with a branded
// header band and a per-page footer.
type pdfDocument struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	logoPath   string
	title      string
	columns    []pdfColumn
	pageW      float64
	pageH      float64
	y          float64
	generated  time.Time
	totalCount int
}

func newPDFDocument(title string, columns []pdfColumn, total int, logoPath string) *pdfDocument {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	w, h := pdf.GetPageSize()

	doc := &pdfDocument{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		logoPath:   logoPath,
		title:      title,
		columns:    columns,
		pageW:      w,
		pageH:      h,
		generated:  time.Now(),
		totalCount: total,
	}
	doc.startPage(true)
	return doc
}

func (d *pdfDocument) startPage(withHeader bool) {
	d.pdf.AddPage()
	if withHeader {
		d.drawHeader()
		d.y = pdfTableTop
	} else {
		d.y = 50
	}
	d.drawTableHeader()
}

func (d *pdfDocument) drawHeader() {
	if d.logoPath != "" {
		d.pdf.ImageOptions(d.logoPath, 50, 40, 50, 50, false, fpdf.ImageOptions{}, 0, "")
	}

	d.pdf.SetFont("Helvetica", "B", 22)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Text(108, 45+16, pdfCompanyName)

	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetTextColor(74, 85, 104)
	d.pdf.Text(110, 70+6, pdfCompanyLine)

	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Text(110, 85+8, d.title)

	d.drawSummaryBox()

	// Double rule separating the band from the table.
	d.pdf.SetDrawColor(0x05, 0x0C, 0x9C)
	d.pdf.SetLineWidth(1.5)
	d.pdf.Line(40, 110, d.pageW-40, 110)
	d.pdf.SetDrawColor(0x3A, 0xBE, 0xF9)
	d.pdf.SetLineWidth(0.8)
	d.pdf.Line(40, 112, d.pageW-40, 112)
}

func (d *pdfDocument) drawSummaryBox() {
	x := d.pageW - 150

	d.pdf.SetFont("Helvetica", "B", 8)
	d.pdf.SetTextColor(45, 55, 72)
	d.pdf.Text(x, 60, "Report Summary")

	d.pdf.SetFont("Helvetica", "", 7)
	d.pdf.SetTextColor(74, 85, 104)
	d.pdf.Text(x, 73, "Generated: "+d.generated.Format("Jan 02, 2006"))
	d.pdf.Text(x, 86, "Time: "+d.generated.Format("15:04"))
	d.pdf.Text(x, 99, fmt.Sprintf("Total Records: %d", d.totalCount))
}

func (d *pdfDocument) drawTableHeader() {
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetTextColor(45, 55, 72)
	d.pdf.SetFillColor(255, 255, 255)
	d.pdf.SetDrawColor(0x35, 0x72, 0xEF)
	d.pdf.SetLineWidth(0.5)

	x := 40.0
	for _, col := range d.columns {
		d.pdf.SetXY(x, d.y)
		d.pdf.CellFormat(col.Width, pdfHeaderRowHeight, col.Title, "1", 0, "CM", true, 0, "")
		x += col.Width
	}
	d.y += pdfHeaderRowHeight
}

func (d *pdfDocument) addRow(index int, values []string) {
	if d.y > d.pageH-pdfBottomMargin {
		d.drawFooter()
		d.startPage(false)
	}

	striped := index%2 == 1
	d.pdf.SetDrawColor(0xE2, 0xE8, 0xF0)
	d.pdf.SetLineWidth(0.5)
	d.pdf.SetFont("Helvetica", "", 8)

	x := 40.0
	for i, col := range d.columns {
		if i == 0 {
			// The index cell keeps its own accent colour.
			d.pdf.SetFillColor(255, 255, 255)
			d.pdf.SetTextColor(0x35, 0x72, 0xEF)
		} else if striped {
			d.pdf.SetFillColor(0xF7, 0xFA, 0xFC)
			d.pdf.SetTextColor(45, 55, 72)
		} else {
			d.pdf.SetFillColor(255, 255, 255)
			d.pdf.SetTextColor(45, 55, 72)
		}

		text := fmt.Sprintf("%d", index)
		if i > 0 {
			text = orNA(values[i-1])
		}

		d.pdf.SetXY(x, d.y)
		d.pdf.CellFormat(col.Width, pdfDataRowHeight, d.tr(truncateCell(text, col.Width)), "1", 0, "CM", true, 0, "")
		x += col.Width
	}
	d.y += pdfDataRowHeight
}

func (d *pdfDocument) drawFooter() {
	d.pdf.SetDrawColor(0x3A, 0xBE, 0xF9)
	d.pdf.SetLineWidth(0.8)
	d.pdf.Line(40, d.pageH-70, d.pageW-40, d.pageH-70)

	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetTextColor(0x71, 0x80, 0x96)
	d.pdf.SetXY(40, d.pageH-55)
	d.pdf.CellFormat(d.pageW-80, 10, pdfFooterLine, "", 0, "C", false, 0, "")

	d.pdf.SetFont("Helvetica", "", 7)
	d.pdf.SetTextColor(0xA0, 0xAE, 0xC0)
	d.pdf.SetXY(40, d.pageH-45)
	d.pdf.CellFormat(d.pageW-80, 10, d.tr(fmt.Sprintf("© %d TalentGrid IT Solutions. All rights reserved.", d.generated.Year())), "", 0, "C", false, 0, "")
}

func (d *pdfDocument) bytes() ([]byte, error) {
	d.drawFooter()

	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, report.ErrPDFGenerationFailed().WithCause(err)
	}
	return buf.Bytes(), nil
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// truncateCell keeps cell text from overflowing narrow columns; widths
// are in points and Helvetica 8pt averages roughly 4.5pt per rune.
func truncateCell(text string, width float64) string {
	max := int(width / 4.5)
	if max < 4 {
		max = 4
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

func renderCandidatesPDF(rows []report.CandidateRow, logoPath string) ([]byte, error) {
	doc := newPDFDocument("Candidates Details Report", candidateColumns, len(rows), logoPath)
	for i, row := range rows {
		doc.addRow(i+1, []string{row.Name, row.Email, row.Phone, row.Position, row.Status, row.Source})
	}
	return doc.bytes()
}

func renderInterviewsPDF(rows []report.InterviewRow, logoPath string) ([]byte, error) {
	doc := newPDFDocument("Interviews Details Report", interviewColumns, len(rows), logoPath)
	for i, row := range rows {
		doc.addRow(i+1, []string{row.Candidate, row.Email, row.Phone, row.Date, row.Type, row.Status})
	}
	return doc.bytes()
}
