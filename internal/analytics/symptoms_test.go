package analytics

import (
	"testing"

	"github.com/sakhi-app/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSymptoms_Empty(t *testing.T) {
	s := AggregateSymptoms(nil)
	assert.Empty(t, s.MostCommon)
	assert.NotNil(t, s.MostCommon)
	assert.Equal(t, 0.0, s.OverallScore)
}

func TestAggregateSymptoms_RanksByFrequency(t *testing.T) {
	obs := []models.SymptomLog{
		{HotFlashes: 4, Fatigue: 6, Anxiety: 2},
		{HotFlashes: 2, Fatigue: 4},
		{Fatigue: 5, BrainFog: 3},
		{}, // all zero: counts toward nothing
	}
	s := AggregateSymptoms(obs)
	require.Len(t, s.MostCommon, 4)

	assert.Equal(t, SymptomRank{Symptom: "Fatigue", AvgSeverity: 5.0, Frequency: 3}, s.MostCommon[0])
	assert.Equal(t, SymptomRank{Symptom: "Hot Flashes", AvgSeverity: 3.0, Frequency: 2}, s.MostCommon[1])
	// ties keep field order: brain_fog precedes anxiety
	assert.Equal(t, "Brain Fog", s.MostCommon[2].Symptom)
	assert.Equal(t, "Anxiety", s.MostCommon[3].Symptom)

	// per-log means: 4, 3, 4 -> 11/3
	assert.InDelta(t, 11.0/3.0, s.OverallScore, 1e-9)
}

func TestAggregateSymptoms_KeepsTopFive(t *testing.T) {
	obs := []models.SymptomLog{{
		HotFlashes: 1, NightSweats: 1, MoodChanges: 1, SleepIssues: 1, JointPain: 1,
		BrainFog: 1, VaginalDryness: 1, Fatigue: 1, Anxiety: 1, HeartPalpitations: 1,
		WeightGain: 3.5,
	}}
	s := AggregateSymptoms(obs)
	require.Len(t, s.MostCommon, 5)
	assert.Equal(t, "Hot Flashes", s.MostCommon[0].Symptom)
	assert.Equal(t, "Joint Pain", s.MostCommon[4].Symptom)
}

func TestDetectTrend(t *testing.T) {
	inc := []float64{10, 10, 10, 10, 10, 2, 2, 2, 2, 2}
	assert.Equal(t, TrendIncreasing, DetectTrend(inc, TrendIncreasing, TrendDecreasing))

	dec := []float64{2, 2, 2, 2, 2, 10, 10, 10, 10, 10}
	assert.Equal(t, TrendImproving, DetectTrend(dec, TrendWorsening, TrendImproving))

	flat := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	assert.Equal(t, TrendStable, DetectTrend(flat, TrendIncreasing, TrendDecreasing))

	assert.Equal(t, TrendStable, DetectTrend(inc[:9], TrendIncreasing, TrendDecreasing))
	assert.Equal(t, TrendStable, DetectTrend(nil, TrendIncreasing, TrendDecreasing))
}

func TestDetectTrend_OddLengthSplitsAtFloorMidpoint(t *testing.T) {
	// mid = 5: recent = first five values, older = remaining six
	values := []float64{5.5, 5.5, 5.5, 5.5, 5.5, 5, 5, 5, 5, 5, 5}
	assert.Equal(t, TrendStable, DetectTrend(values, TrendIncreasing, TrendDecreasing))
}

func TestCompositeSeveritiesIncludesZeros(t *testing.T) {
	got := CompositeSeverities([]models.SymptomLog{{HotFlashes: 5, Fatigue: 5}})
	assert.Equal(t, []float64{1.0}, got)
}

func TestSleepAndMoodScores(t *testing.T) {
	obs := []models.SymptomLog{
		{SleepIssues: 4, MoodChanges: 0},
		{SleepIssues: 6},
		{SleepIssues: 0},
	}
	assert.Equal(t, 5.0, SleepQuality(obs))
	assert.Equal(t, 10.0, MoodScore(obs))
	assert.Equal(t, 10.0, SleepQuality(nil))
	assert.InDelta(t, 0.0, AverageHotFlashes(nil), 1e-9)
}

func TestDisplaySymptomName(t *testing.T) {
	assert.Equal(t, "Heart Palpitations", DisplaySymptomName("heart_palpitations"))
	assert.Equal(t, "Fatigue", DisplaySymptomName("fatigue"))
}
