package pdf

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskpilot/internal/models"
)

const (
	marginMM   = 20.0
	pageWidth  = 210.0
	barWidthMM = 80.0
)

// ReportRenderer draws the caller's progress report.
type ReportRenderer struct {
	// FontPath points at a TTF with the glyphs the task titles need.
	// When empty or missing the core Helvetica font is used.
	FontPath string
}

type ProgressReport struct {
	UserID      string
	GeneratedAt time.Time
	Stats       models.TaskStatistics
	Tasks       []models.Task
}

func NewReportRenderer(fontPath string) *ReportRenderer {
	return &ReportRenderer{FontPath: fontPath}
}

type page struct {
	pdf  *gofpdf.Fpdf
	font string
	tr   func(string) string
}

func (r *ReportRenderer) Render(w io.Writer, report ProgressReport) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Task progress report", true)
	doc.SetAuthor("taskpilot", false)
	doc.SetMargins(marginMM, marginMM, marginMM)
	doc.SetAutoPageBreak(true, marginMM)

	p := page{pdf: doc, font: "Helvetica", tr: doc.UnicodeTranslatorFromDescriptor("")}
	if r.FontPath != "" {
		if _, err := os.Stat(r.FontPath); err == nil {
			doc.AddUTF8Font("Report", "", r.FontPath)
			doc.AddUTF8Font("Report", "B", r.FontPath)
			p.font = "Report"
			p.tr = func(s string) string { return s }
		}
	}
	doc.AddPage()

	doc.SetFont(p.font, "B", 18)
	doc.CellFormat(0, 10, p.tr("Task progress"), "", 1, "C", false, 0, "")
	doc.SetFont(p.font, "", 10)
	doc.CellFormat(0, 6, p.tr(fmt.Sprintf("Generated %s", report.GeneratedAt.UTC().Format("02.01.2006 15:04 MST"))),
		"", 1, "C", false, 0, "")
	p.hr()

	st := report.Stats
	p.sectionTitle("Overview")
	p.kvLine("Total", fmt.Sprintf("%d", st.Total))
	p.kvLine("Completed", fmt.Sprintf("%d", st.Completed))
	p.kvLine("Pending", fmt.Sprintf("%d", st.Pending))
	p.kvLine("Progress", fmt.Sprintf("%d%%", percent(st.Completed, st.Total)))
	p.hr()

	p.sectionTitle("By category")
	categories := make([]string, 0, len(st.Categories))
	for name := range st.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	if len(categories) == 0 {
		doc.SetFont(p.font, "", 11)
		doc.CellFormat(0, 7, p.tr("No tasks yet."), "", 1, "L", false, 0, "")
	}
	for _, name := range categories {
		cs := st.Categories[name]
		p.progressLine(name, cs.Completed, cs.Total)
	}

	if len(report.Tasks) > 0 {
		p.hr()
		p.sectionTitle("Tasks")
		doc.SetFont(p.font, "", 10)
		for _, t := range report.Tasks {
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
			}
			doc.MultiCell(0, 5, p.tr(fmt.Sprintf("%s %s (%s)", mark, t.Title, t.Category)), "", "L", false)
		}
	}

	return doc.Output(w)
}

func (p page) sectionTitle(s string) {
	p.pdf.Ln(2)
	p.pdf.SetFont(p.font, "B", 13)
	p.pdf.CellFormat(0, 8, p.tr(s), "", 1, "L", false, 0, "")
}

func (p page) kvLine(key, val string) {
	p.pdf.SetFont(p.font, "B", 11)
	p.pdf.CellFormat(45, 7, p.tr(key+":"), "", 0, "L", false, 0, "")
	p.pdf.SetFont(p.font, "", 11)
	p.pdf.CellFormat(0, 7, p.tr(val), "", 1, "L", false, 0, "")
}

func (p page) progressLine(name string, done, total int) {
	p.pdf.SetFont(p.font, "", 11)
	p.pdf.CellFormat(60, 7, p.tr(name), "", 0, "L", false, 0, "")

	x, y := p.pdf.GetXY()
	p.pdf.SetDrawColor(160, 160, 160)
	p.pdf.Rect(x, y+1.5, barWidthMM, 4, "D")
	if filled := barWidthMM * float64(done) / float64(max(total, 1)); filled > 0 {
		p.pdf.SetFillColor(76, 175, 80)
		p.pdf.Rect(x, y+1.5, filled, 4, "F")
	}
	p.pdf.SetX(x + barWidthMM + 4)
	p.pdf.CellFormat(0, 7, fmt.Sprintf("%d/%d", done, total), "", 1, "L", false, 0, "")
}

func (p page) hr() {
	y := p.pdf.GetY() + 2
	p.pdf.SetDrawColor(200, 200, 200)
	p.pdf.Line(marginMM, y, pageWidth-marginMM, y)
	p.pdf.Ln(4)
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}
