package analytics

import (
	"testing"
	"time"

	"github.com/sakhi-app/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, raw string) models.Date {
	t.Helper()
	d, err := models.ParseDate(raw)
	require.NoError(t, err)
	return d
}

// logsWithGaps builds logs newest first, starting at newest and stepping
// back by each gap.
func logsWithGaps(t *testing.T, newest string, gaps ...int) []models.PeriodLog {
	t.Helper()
	start := day(t, newest)
	logs := []models.PeriodLog{{StartDate: start}}
	for _, g := range gaps {
		start = start.AddDays(-g)
		logs = append(logs, models.PeriodLog{StartDate: start})
	}
	return logs
}

func TestCycleLengths_DropsNonPositiveDeltas(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	starts := []time.Time{
		base,
		base.AddDate(0, 0, -30),
		base.AddDate(0, 0, -30), // duplicate
		base.AddDate(0, 0, -20), // out of order
		base.AddDate(0, 0, -58),
	}
	assert.Equal(t, []int{30, 38}, CycleLengths(starts))
	assert.Empty(t, CycleLengths(starts[:1]))
	assert.Empty(t, CycleLengths(nil))
}

func TestEqualGaps(t *testing.T) {
	lengths := CycleLengths(StartDates(logsWithGaps(t, "2025-05-01", 30, 30, 30, 30)))
	assert.Equal(t, 30.0, AverageCycleLength(lengths))
	assert.Equal(t, 0.0, Variability(lengths))
	assert.Equal(t, RegularityRegular, RangeRegularity(lengths))
	assert.Equal(t, RegularityRegular, DeviationRegularity(lengths))
}

func TestOneLongGapIsIrregular(t *testing.T) {
	lengths := CycleLengths(StartDates(logsWithGaps(t, "2025-05-01", 28, 40, 28)))
	assert.Equal(t, RegularityIrregular, RangeRegularity(lengths))
}

func TestEmptySeriesDefaults(t *testing.T) {
	assert.Equal(t, 28.0, AverageCycleLength(nil))
	assert.Equal(t, 0.0, Variability(nil))
	assert.Equal(t, 0.0, Variability([]int{29}))
	assert.Equal(t, RegularityUnknown, RangeRegularity(nil))
	assert.Equal(t, RegularityUnknown, DeviationRegularity(nil))
}

func TestVariability_SampleStdDev(t *testing.T) {
	// mean 30, squared deviations 4+0+4 -> sample variance 4
	assert.InDelta(t, 2.0, Variability([]int{28, 30, 32}), 1e-9)
	assert.InDelta(t, 1.633, PopulationStdDev([]int{28, 30, 32}), 1e-3)
}

func TestDeviationRegularity_Tiers(t *testing.T) {
	cases := []struct {
		lengths []int
		want    string
	}{
		{[]int{28, 29, 30}, RegularityRegular},
		{[]int{24, 30, 36}, RegularitySomewhatIrregular},
		{[]int{20, 40, 25}, RegularityIrregular},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeviationRegularity(tc.lengths), "%v", tc.lengths)
	}
}

func TestRangeAndDeviationPoliciesDiverge(t *testing.T) {
	// spread 8 is irregular for the tracker, std ~3.6 is only somewhat irregular
	lengths := []int{26, 34, 30, 26, 34}
	assert.Equal(t, RegularityIrregular, RangeRegularity(lengths))
	assert.Equal(t, RegularitySomewhatIrregular, DeviationRegularity(lengths))
}

func TestPredictNext_FloorsAverage(t *testing.T) {
	last := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	got := PredictNext(last, 28.9)
	assert.Equal(t, "2025-02-07", got.Format(models.DateLayout))
}

func TestSummarizeCycles(t *testing.T) {
	empty := SummarizeCycles(nil)
	assert.Equal(t, 28, empty.AverageCycleLength)
	assert.Equal(t, RegularityUnknown, empty.Regularity)
	assert.Nil(t, empty.LastPeriodDate)
	assert.Nil(t, empty.NextPeriodEstimate)

	single := SummarizeCycles(logsWithGaps(t, "2025-04-01"))
	assert.Equal(t, 28, single.AverageCycleLength)
	assert.Equal(t, RegularityUnknown, single.Regularity)
	require.NotNil(t, single.NextPeriodEstimate)
	assert.Equal(t, "2025-04-29", single.NextPeriodEstimate.String())

	s := SummarizeCycles(logsWithGaps(t, "2025-04-01", 29, 30))
	assert.Equal(t, 29, s.AverageCycleLength)
	assert.Equal(t, RegularityRegular, s.Regularity)
	assert.Equal(t, 3, s.TotalLogs)
	assert.Equal(t, "2025-04-01", s.LastPeriodDate.String())
	assert.Equal(t, "2025-04-30", s.NextPeriodEstimate.String())
}

func TestComputeCycleStats(t *testing.T) {
	logs := logsWithGaps(t, "2025-04-01", 28, 30)
	end0 := logs[0].StartDate.AddDays(4)
	end1 := logs[1].StartDate.AddDays(5)
	logs[0].EndDate = &end0
	logs[1].EndDate = &end1
	logs[0].Symptoms = models.StringArray{"cramps", "fatigue"}
	logs[1].Symptoms = models.StringArray{"bloating", "cramps"}
	logs[2].Symptoms = models.StringArray{"fatigue", "acne", "cramps"}

	stats := ComputeCycleStats(logs)
	assert.Equal(t, 29.0, stats.AvgCycleLength)
	assert.Equal(t, 5.5, stats.AvgPeriodDuration)
	assert.Equal(t, RegularityRegular, stats.Regularity)
	assert.Equal(t, []string{"cramps", "fatigue", "bloating"}, stats.CommonSymptoms)
	assert.Equal(t, 3, stats.TotalCyclesTracked)
	assert.Equal(t, []int{28, 30}, stats.CycleLengths)
}

func TestComputeCycleStats_NoDurationsOrTags(t *testing.T) {
	stats := ComputeCycleStats(logsWithGaps(t, "2025-04-01", 28))
	assert.Equal(t, 0.0, stats.AvgPeriodDuration)
	assert.Equal(t, []string{}, stats.CommonSymptoms)
}
