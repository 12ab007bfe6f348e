package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// reportView pairs one metric view of a report with how it is presented.
type reportView struct {
	view  schema.MetricView
	title string
	unit  string
	rows  []schema.EnrichedFileHeat
}

// viewsOf returns the views present in a report, age first.
func viewsOf(report *schema.RepositoryReport) []reportView {
	var views []reportView
	if report.CommitAge != nil {
		views = append(views, reportView{
			view:  schema.AgeView,
			title: "Commit age (days since last change, oldest first)",
			unit:  "Age",
			rows:  report.CommitAge,
		})
	}
	if report.ChangeFrequency != nil {
		views = append(views, reportView{
			view:  schema.FrequencyView,
			title: fmt.Sprintf("Change frequency (commits in the last %d days, most frequent first)", report.RecentDays),
			unit:  "Changes",
			rows:  report.ChangeFrequency,
		})
	}
	return views
}

// writeReportsJSON writes every report as one JSON array.
func writeReportsJSON(w io.Writer, reports []*schema.RepositoryReport) error {
	if reports == nil {
		reports = []*schema.RepositoryReport{}
	}
	return writeJSON(w, reports)
}

// writeReportsCSV writes one row per ranked file per view.
func writeReportsCSV(w io.Writer, reports []*schema.RepositoryReport) error {
	header := []string{"repo_path", "view", "rank", "path", "value", "heat", "label", "resolved"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, report := range reports {
			for _, v := range viewsOf(report) {
				for _, row := range v.rows {
					rec := []string{
						report.RepoPath,
						string(v.view),
						strconv.Itoa(row.Rank),
						row.Path,
						strconv.Itoa(row.Value),
						formatHeat(row.Heat),
						row.Label,
						strconv.FormatBool(row.Resolved),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// writeReportTables renders a header and one table per view for every report.
func writeReportTables(w io.Writer, reports []*schema.RepositoryReport, cfg *contract.Config, duration time.Duration) error {
	pathWidth := GetMaxTablePathWidth(cfg)
	for i, report := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeReportHeader(w, report); err != nil {
			return err
		}
		for _, v := range viewsOf(report) {
			if err := writeViewTable(w, v, cfg.UseColors, pathWidth); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. History backend: %s\n", duration, cfg.Workers, cfg.HistoryBackend)
	return err
}

// writeReportHeader prints the repository name, file count and time window.
func writeReportHeader(w io.Writer, report *schema.RepositoryReport) error {
	repoName := filepath.Base(report.RepoPath)
	if repoName == "" || repoName == "." || repoName == string(filepath.Separator) {
		repoName = "current"
	}
	windowStart := contract.WindowStart(report.ReferenceTime, report.RecentDays)
	if _, err := fmt.Fprintf(w, "🔎 Repo: %s (%d files)\n", repoName, report.TotalFiles); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "📅 Window: %s → %s\n",
		windowStart.Format(contract.DateTimeFormat), report.ReferenceTime.Format(contract.DateTimeFormat))
	return err
}

// writeViewTable renders one ranked view.
func writeViewTable(w io.Writer, v reportView, useColors bool, pathWidth int) error {
	if _, err := fmt.Fprintln(w, v.title); err != nil {
		return err
	}
	if len(v.rows) == 0 {
		_, err := fmt.Fprintln(w, "No files found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", v.unit, "Heat", "Label", "Resolved"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(v.rows))
	for _, row := range v.rows {
		label := row.Label
		if useColors {
			label = contract.GetColorLabel(row.Heat)
		}
		resolved := "yes"
		if !row.Resolved {
			resolved = "no"
		}
		data = append(data, []string{
			strconv.Itoa(row.Rank),
			contract.TruncatePath(row.Path, pathWidth),
			strconv.Itoa(row.Value),
			formatHeat(row.Heat),
			label,
			resolved,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func formatHeat(heat float64) string {
	return strconv.FormatFloat(heat, 'f', 1, 64)
}
