package core

import (
	"testing"

	"github.com/huangsam/githeat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankFixture() *schema.AnalysisResult {
	r := schema.NewAnalysisResult("/repo", fixedNow, 30)
	r.Record("a.go", 10, 4, schema.LookupOK)
	r.Record("b.go", 200, 0, schema.LookupOK)
	r.Record("c.go", 10, 9, schema.LookupOK)
	r.Record("d.go", 0, 0, schema.LookupNotFound)
	return r
}

func TestRankAge(t *testing.T) {
	ranked := RankAge(rankFixture(), 0)
	require.Len(t, ranked, 4)

	paths := make([]string, len(ranked))
	for i, r := range ranked {
		paths[i] = r.Path
	}
	assert.Equal(t, []string{"b.go", "a.go", "c.go", "d.go"}, paths, "oldest first, ties by path")
	assert.False(t, ranked[3].Resolved)
}

func TestRankFrequency(t *testing.T) {
	ranked := RankFrequency(rankFixture(), 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "c.go", ranked[0].Path)
	assert.Equal(t, 9, ranked[0].Value)
	assert.Equal(t, "a.go", ranked[1].Path)
}

func TestRank_EmptyResult(t *testing.T) {
	empty := schema.NewAnalysisResult("/repo", fixedNow, 30)
	assert.Empty(t, RankAge(empty, 10))
	assert.Empty(t, RankFrequency(empty, 10))
}

func TestBuildReport(t *testing.T) {
	result := rankFixture()

	t.Run("both views", func(t *testing.T) {
		report := BuildReport(result, schema.BothView, 2)
		assert.Equal(t, "/repo", report.RepoPath)
		assert.Equal(t, 4, report.TotalFiles)
		require.Len(t, report.CommitAge, 2)
		require.Len(t, report.ChangeFrequency, 2)

		assert.Equal(t, 1, report.CommitAge[0].Rank)
		assert.InDelta(t, 100.0, report.CommitAge[0].Heat, 0.001)
		assert.Equal(t, "Critical", report.CommitAge[0].Label)
		assert.InDelta(t, 5.0, report.CommitAge[1].Heat, 0.001)
		assert.Equal(t, "Low", report.CommitAge[1].Label)
	})

	t.Run("age only", func(t *testing.T) {
		report := BuildReport(result, schema.AgeView, 10)
		assert.Len(t, report.CommitAge, 4)
		assert.Nil(t, report.ChangeFrequency)
	})

	t.Run("frequency only", func(t *testing.T) {
		report := BuildReport(result, schema.FrequencyView, 10)
		assert.Nil(t, report.CommitAge)
		require.Len(t, report.ChangeFrequency, 4)
		assert.InDelta(t, 44.44, report.ChangeFrequency[1].Heat, 0.01)
		assert.Equal(t, "Moderate", report.ChangeFrequency[1].Label)
	})
}
