package analytics

import (
	"sort"
	"strings"

	"github.com/sakhi-app/core/internal/models"
)

const (
	minTrendSamples = 10
	trendUpRatio    = 1.2
	trendDownRatio  = 0.8
	topSymptoms     = 5

	TrendStable     = "stable"
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendWorsening  = "worsening"
	TrendImproving  = "improving"
)

// SymptomRank is one entry of the most-common-symptoms list.
type SymptomRank struct {
	Symptom     string  `json:"symptom"`
	AvgSeverity float64 `json:"avg_severity"`
	Frequency   int     `json:"frequency"`
}

type SymptomSummary struct {
	MostCommon   []SymptomRank `json:"most_common_symptoms"`
	OverallScore float64       `json:"overall_symptom_score"`
}

// AggregateSymptoms ranks the tracked fields by how often they were
// reported (> 0) and scores overall severity as the mean of each
// observation's mean non-zero severity. Weight gain is not a severity.
func AggregateSymptoms(obs []models.SymptomLog) SymptomSummary {
	summary := SymptomSummary{MostCommon: []SymptomRank{}}
	if len(obs) == 0 {
		return summary
	}

	sums := make([]int, len(models.SymptomFields))
	freq := make([]int, len(models.SymptomFields))
	var perLog []float64

	for _, o := range obs {
		var logSum, logN int
		for i, v := range o.Severities() {
			if v <= 0 {
				continue
			}
			sums[i] += v
			freq[i]++
			logSum += v
			logN++
		}
		if logN > 0 {
			perLog = append(perLog, float64(logSum)/float64(logN))
		}
	}

	for i, field := range models.SymptomFields {
		if freq[i] == 0 {
			continue
		}
		summary.MostCommon = append(summary.MostCommon, SymptomRank{
			Symptom:     DisplaySymptomName(field),
			AvgSeverity: Round1(float64(sums[i]) / float64(freq[i])),
			Frequency:   freq[i],
		})
	}
	sort.SliceStable(summary.MostCommon, func(i, j int) bool {
		return summary.MostCommon[i].Frequency > summary.MostCommon[j].Frequency
	})
	if len(summary.MostCommon) > topSymptoms {
		summary.MostCommon = summary.MostCommon[:topSymptoms]
	}

	summary.OverallScore = meanFloat(perLog)
	return summary
}

// DisplaySymptomName turns "hot_flashes" into "Hot Flashes".
func DisplaySymptomName(field string) string {
	words := strings.Fields(strings.ReplaceAll(field, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// DetectTrend compares the mean of the newer half of values (values are
// newest first) against the older half. Fewer than 10 samples is stable.
func DetectTrend(values []float64, up, down string) string {
	n := len(values)
	if n < minTrendSamples {
		return TrendStable
	}
	mid := n / 2
	recent := meanFloat(values[:mid])
	older := meanFloat(values[mid:])

	switch {
	case recent > older*trendUpRatio:
		return up
	case recent < older*trendDownRatio:
		return down
	default:
		return TrendStable
	}
}

// HotFlashCounts returns the hot flash count of each observation.
func HotFlashCounts(obs []models.SymptomLog) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = float64(o.HotFlashes)
	}
	return out
}

// CompositeSeverities returns, per observation, the mean over all ten
// tracked fields including zeros.
func CompositeSeverities(obs []models.SymptomLog) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		var sum int
		sev := o.Severities()
		for _, v := range sev {
			sum += v
		}
		out[i] = float64(sum) / float64(len(sev))
	}
	return out
}

// AverageHotFlashes is the mean hot flash count over every observation.
func AverageHotFlashes(obs []models.SymptomLog) float64 {
	return meanFloat(HotFlashCounts(obs))
}

// SleepQuality is 10 minus the mean non-zero sleep_issues severity.
func SleepQuality(obs []models.SymptomLog) float64 {
	return invertedScore(obs, func(o models.SymptomLog) int { return o.SleepIssues })
}

// MoodScore is 10 minus the mean non-zero mood_changes severity.
func MoodScore(obs []models.SymptomLog) float64 {
	return invertedScore(obs, func(o models.SymptomLog) int { return o.MoodChanges })
}

func invertedScore(obs []models.SymptomLog, pick func(models.SymptomLog) int) float64 {
	var sum, n int
	for _, o := range obs {
		if v := pick(o); v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 10
	}
	return 10 - float64(sum)/float64(n)
}

func meanFloat(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
