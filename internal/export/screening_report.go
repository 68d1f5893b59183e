package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"screening-sync/internal/domain/job"
	"screening-sync/internal/domain/scoring"
)

const (
	summarySheet = "Summary"
	resultsSheet = "Screening Results"
)

type Row struct {
	CandidateID    string
	Name           string
	Email          string
	Status         string
	ResumeScore    int
	FinalScore     int
	Recommendation string
	HasInterview   bool
	SkillMatches   []string
}

type Report struct {
	Job         job.Job
	Rows        []Row
	GeneratedAt time.Time
}

var fillByBucket = []string{"FFC7CE", "FFEB9C", "DDEBF7", "C6EFCE"}

// BuildScreeningReport renders the ranked results of one job as an xlsx
// workbook. Rows are written in the order given.
func BuildScreeningReport(r Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return nil, err
	}
	if err := writeSummary(f, r); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeResults(f, r.Rows); err != nil {
		return nil, fmt.Errorf("results sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName is the download name for a job's report.
func FileName(j job.Job, at time.Time) string {
	title := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(j.Title))
	if title == "" {
		title = "job"
	}
	return fmt.Sprintf("screening_%s_%s.xlsx", title, at.Format("20060102"))
}

func writeSummary(f *excelize.File, r Report) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 50); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := f.SetCellValue(summarySheet, "A1", "Screening Report"); err != nil {
		return err
	}
	if err := f.MergeCell(summarySheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", header); err != nil {
		return err
	}

	counts := make([]int, len(scoring.Buckets))
	sum := 0
	for _, row := range r.Rows {
		sum += row.FinalScore
		if idx := scoring.BucketIndex(row.FinalScore); idx >= 0 {
			counts[idx]++
		}
	}
	avg := "0.0"
	if len(r.Rows) > 0 {
		avg = fmt.Sprintf("%.1f", float64(sum)/float64(len(r.Rows)))
	}

	pairs := [][2]any{
		{"Job Title", r.Job.Title},
		{"Job Status", string(r.Job.Status)},
		{"Required Skills", strings.Join(r.Job.RequiredSkills, ", ")},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Candidates", len(r.Rows)},
		{"Average Final Score", avg},
	}
	for i, b := range scoring.Buckets {
		pairs = append(pairs, [2]any{"Score " + b.Label, counts[i]})
	}

	for i, p := range pairs {
		row := i + 3
		a, _ := excelize.CoordinatesToCellName(1, row)
		b, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(summarySheet, a, p[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, b, p[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, a, a, label); err != nil {
			return err
		}
	}
	return nil
}

func writeResults(f *excelize.File, rows []Row) error {
	headers := []string{"Rank", "Candidate", "Email", "Status", "Resume Score", "Final Score", "Recommendation", "Interview", "Skill Matches"}
	widths := []float64{8, 25, 30, 14, 14, 14, 20, 12, 40}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(resultsSheet, col, col, w); err != nil {
			return err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	styles := make([]int, len(fillByBucket))
	for i, color := range fillByBucket {
		styles[i], err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(resultsSheet, "A1", &headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(resultsSheet, "A1", last, header); err != nil {
		return err
	}

	for i, r := range rows {
		n := i + 2
		interview := "No"
		if r.HasInterview {
			interview = "Yes"
		}
		values := []any{i + 1, r.Name, r.Email, r.Status, r.ResumeScore, r.FinalScore, r.Recommendation, interview, strings.Join(r.SkillMatches, ", ")}
		start, _ := excelize.CoordinatesToCellName(1, n)
		if err := f.SetSheetRow(resultsSheet, start, &values); err != nil {
			return err
		}
		if idx := scoring.BucketIndex(r.FinalScore); idx >= 0 && idx < len(styles) {
			end, _ := excelize.CoordinatesToCellName(len(headers), n)
			if err := f.SetCellStyle(resultsSheet, start, end, styles[idx]); err != nil {
				return err
			}
		}
	}

	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
		if err := f.AutoFilter(resultsSheet, "A1:"+last, nil); err != nil {
			return err
		}
	}
	return f.SetPanes(resultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
