package core

import (
	"cmp"
	"slices"

	"github.com/huangsam/githeat/schema"
)

// RankAge orders files oldest first and returns the top limit entries.
// A limit of zero or less returns every file.
func RankAge(result *schema.AnalysisResult, limit int) []schema.FileHeat {
	return rankBy(result, result.CommitAge, limit)
}

// RankFrequency orders files most frequently changed first and returns the
// top limit entries. A limit of zero or less returns every file.
func RankFrequency(result *schema.AnalysisResult, limit int) []schema.FileHeat {
	return rankBy(result, result.ChangeFrequency, limit)
}

// rankBy sorts descending by value with ties broken by path.
func rankBy(result *schema.AnalysisResult, values map[string]int, limit int) []schema.FileHeat {
	rows := make([]schema.FileHeat, 0, len(values))
	for path, v := range values {
		rows = append(rows, schema.FileHeat{Path: path, Value: v, Resolved: result.Resolved(path)})
	}
	slices.SortFunc(rows, func(a, b schema.FileHeat) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
	return truncate(rows, limit)
}

// BuildReport ranks the requested views of one result. Heat is scaled against
// the hottest value of the full view, before truncation.
func BuildReport(result *schema.AnalysisResult, view schema.MetricView, limit int) *schema.RepositoryReport {
	report := &schema.RepositoryReport{
		RepoPath:      result.RepoPath,
		ReferenceTime: result.Now,
		RecentDays:    result.RecentDays,
		TotalFiles:    result.Len(),
	}
	if view != schema.FrequencyView {
		all := RankAge(result, 0)
		report.CommitAge = schema.EnrichHeat(truncate(all, limit), schema.MaxValue(all))
	}
	if view != schema.AgeView {
		all := RankFrequency(result, 0)
		report.ChangeFrequency = schema.EnrichHeat(truncate(all, limit), schema.MaxValue(all))
	}
	return report
}

func truncate(rows []schema.FileHeat, limit int) []schema.FileHeat {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
