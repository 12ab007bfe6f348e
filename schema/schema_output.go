package schema

import "time"

// EnrichedFileHeat adds presentation data to a FileHeat.
type EnrichedFileHeat struct {
	Rank  int     `json:"rank"`
	Heat  float64 `json:"heat"`
	Label string  `json:"label"`
	FileHeat
}

// RepositoryReport is the serializable form of one repository's ranked views.
type RepositoryReport struct {
	RepoPath        string             `json:"repo_path"`
	ReferenceTime   time.Time          `json:"reference_time"`
	RecentDays      int                `json:"recent_days"`
	TotalFiles      int                `json:"total_files"`
	CommitAge       []EnrichedFileHeat `json:"commit_age,omitempty"`
	ChangeFrequency []EnrichedFileHeat `json:"change_frequency,omitempty"`
}

// GetPlainLabel returns a plain text label indicating the heat level
// based on a 0-100 heat score.
func GetPlainLabel(heat float64) string {
	switch {
	case heat >= 80:
		return "Critical"
	case heat >= 60:
		return "High"
	case heat >= 40:
		return "Moderate"
	default:
		return "Low"
	}
}

// HeatScore scales value against the hottest value of its view into 0-100.
func HeatScore(value, hottest int) float64 {
	if hottest <= 0 || value <= 0 {
		return 0
	}
	return float64(value) / float64(hottest) * 100
}

// MaxValue returns the largest value among the rows, or 0.
func MaxValue(rows []FileHeat) int {
	hottest := 0
	for _, r := range rows {
		hottest = max(hottest, r.Value)
	}
	return hottest
}

// EnrichHeat adds rank, heat and label to a ranked view. The hottest value
// is taken from the full view so truncated views keep their scale.
func EnrichHeat(rows []FileHeat, hottest int) []EnrichedFileHeat {
	output := make([]EnrichedFileHeat, len(rows))
	for i, r := range rows {
		heat := HeatScore(r.Value, hottest)
		output[i] = EnrichedFileHeat{
			Rank:     i + 1,
			Heat:     heat,
			Label:    GetPlainLabel(heat),
			FileHeat: r,
		}
	}
	return output
}
