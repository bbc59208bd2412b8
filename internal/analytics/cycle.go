// Package analytics derives cycle and symptom statistics from stored logs.
// Everything here is pure: inputs are never mutated and missing data yields
// defaults instead of errors.
//
//   - cycle.go     : cycle lengths, averages, regularity, prediction, period stats
//   - symptoms.go  : symptom aggregation, trends, sleep & mood scores
//   - menopause.go : milestone estimate, risk tiers, the full menopause report
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sakhi-app/core/internal/models"
)

const (
	// DefaultCycleLength is reported when no cycle length can be derived.
	DefaultCycleLength = 28

	RegularityRegular           = "regular"
	RegularitySomewhatIrregular = "somewhat irregular"
	RegularityIrregular         = "irregular"
	RegularityUnknown           = "unknown"

	rangeRegularityMaxSpread = 7
	deviationRegularStd      = 3.0
	deviationSomewhatStd     = 7.0
)

// StartDates extracts start dates from logs, keeping their order.
func StartDates(logs []models.PeriodLog) []time.Time {
	out := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.StartDate.Time)
	}
	return out
}

// CycleLengths returns the day deltas between consecutive starts, newest
// first. Non-positive deltas (duplicates, misordered rows) are dropped.
func CycleLengths(starts []time.Time) []int {
	if len(starts) < 2 {
		return []int{}
	}
	out := make([]int, 0, len(starts)-1)
	for i := 0; i < len(starts)-1; i++ {
		days := int(starts[i].Sub(starts[i+1]).Hours() / 24)
		if days > 0 {
			out = append(out, days)
		}
	}
	return out
}

// AverageCycleLength is the arithmetic mean, or 28 for an empty series.
func AverageCycleLength(lengths []int) float64 {
	if len(lengths) == 0 {
		return DefaultCycleLength
	}
	return mean(lengths)
}

// Variability is the sample standard deviation; 0 below two values.
func Variability(lengths []int) float64 {
	if len(lengths) < 2 {
		return 0
	}
	avg := mean(lengths)
	var sum float64
	for _, v := range lengths {
		d := float64(v) - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(lengths)-1))
}

// PopulationStdDev is the population standard deviation; 0 when empty.
func PopulationStdDev(lengths []int) float64 {
	if len(lengths) == 0 {
		return 0
	}
	avg := mean(lengths)
	var sum float64
	for _, v := range lengths {
		d := float64(v) - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(lengths)))
}

// RangeRegularity is the period-tracker policy: regular when the spread
// between the longest and shortest cycle is at most 7 days.
func RangeRegularity(lengths []int) string {
	if len(lengths) == 0 {
		return RegularityUnknown
	}
	lo, hi := lengths[0], lengths[0]
	for _, v := range lengths[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi-lo > rangeRegularityMaxSpread {
		return RegularityIrregular
	}
	return RegularityRegular
}

// DeviationRegularity is the insights policy, tiered on the population
// standard deviation.
func DeviationRegularity(lengths []int) string {
	if len(lengths) == 0 {
		return RegularityUnknown
	}
	std := PopulationStdDev(lengths)
	switch {
	case std <= deviationRegularStd:
		return RegularityRegular
	case std <= deviationSomewhatStd:
		return RegularitySomewhatIrregular
	default:
		return RegularityIrregular
	}
}

// PredictNext adds the whole-day part of avg to the last start.
func PredictNext(last time.Time, avg float64) time.Time {
	return last.AddDate(0, 0, int(math.Floor(avg)))
}

// PeriodDurations returns inclusive durations of the logs that have ended.
func PeriodDurations(logs []models.PeriodLog) []int {
	out := make([]int, 0, len(logs))
	for _, l := range logs {
		if d := l.DurationDays(); d > 0 {
			out = append(out, d)
		}
	}
	return out
}

// CommonTags returns the n most frequent symptom tags. Ties keep the order
// in which tags were first seen.
func CommonTags(logs []models.PeriodLog, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, l := range logs {
		for _, tag := range l.Symptoms {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// CycleAnalytics is the period tracker summary.
type CycleAnalytics struct {
	AverageCycleLength int          `json:"average_cycle_length"`
	LastPeriodDate     *models.Date `json:"last_period_date"`
	NextPeriodEstimate *models.Date `json:"next_period_estimate"`
	Regularity         string       `json:"regularity"`
	TotalLogs          int          `json:"total_logs"`
}

// SummarizeCycles builds the tracker summary from logs ordered newest first.
func SummarizeCycles(logs []models.PeriodLog) CycleAnalytics {
	if len(logs) == 0 {
		return CycleAnalytics{
			AverageCycleLength: DefaultCycleLength,
			Regularity:         RegularityUnknown,
		}
	}

	lengths := CycleLengths(StartDates(logs))
	avg := int(math.Floor(AverageCycleLength(lengths)))
	last := logs[0].StartDate
	next := last.AddDays(avg)

	return CycleAnalytics{
		AverageCycleLength: avg,
		LastPeriodDate:     &last,
		NextPeriodEstimate: &next,
		Regularity:         RangeRegularity(lengths),
		TotalLogs:          len(logs),
	}
}

// CycleStats feeds the insights generator.
type CycleStats struct {
	AvgCycleLength     float64  `json:"avg_cycle_length"`
	AvgPeriodDuration  float64  `json:"avg_period_duration"`
	Regularity         string   `json:"regularity"`
	CommonSymptoms     []string `json:"common_symptoms"`
	TotalCyclesTracked int      `json:"total_cycles_tracked"`
	CycleLengths       []int    `json:"cycle_lengths"`
}

// ComputeCycleStats derives insight statistics; averages are 0 when the
// underlying series is empty.
func ComputeCycleStats(logs []models.PeriodLog) CycleStats {
	lengths := CycleLengths(StartDates(logs))
	durations := PeriodDurations(logs)

	stats := CycleStats{
		Regularity:         DeviationRegularity(lengths),
		CommonSymptoms:     CommonTags(logs, 3),
		TotalCyclesTracked: len(logs),
		CycleLengths:       lengths,
	}
	if len(lengths) > 0 {
		stats.AvgCycleLength = Round1(mean(lengths))
	}
	if len(durations) > 0 {
		stats.AvgPeriodDuration = Round1(mean(durations))
	}
	return stats
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
