package analytics

import (
	"testing"
	"time"

	"github.com/sakhi-app/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

var now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestAssessRisk(t *testing.T) {
	ended := models.NewDate(now.AddDate(0, -1, 0))
	activeHRT := models.Treatment{TreatmentType: "HRT"}
	endedHRT := models.Treatment{TreatmentType: "HRT", EndDate: &ended}
	supplement := models.Treatment{TreatmentType: "Supplement"}

	cases := []struct {
		name       string
		stage      string
		age        *int
		treatments []models.Treatment
		want       string
	}{
		{"post menopause at 65 without hrt", models.StagePostMenopause, intPtr(65), nil, RiskHigh},
		{"active hrt demotes high", models.StagePostMenopause, intPtr(65), []models.Treatment{activeHRT}, RiskMedium},
		{"ended hrt does not count", models.StagePostMenopause, intPtr(65), []models.Treatment{endedHRT}, RiskHigh},
		{"non hrt does not count", models.StageMenopause, intPtr(62), []models.Treatment{supplement}, RiskHigh},
		{"menopause under 60", models.StageMenopause, intPtr(52), nil, RiskMedium},
		{"hrt leaves medium alone", models.StageMenopause, intPtr(52), []models.Treatment{activeHRT}, RiskMedium},
		{"perimenopause is low", models.StageLatePerimenopause, intPtr(65), nil, RiskLow},
		{"unknown age is low", models.StagePostMenopause, nil, nil, RiskLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := AssessRisk(tc.stage, tc.age, tc.treatments, now)
			assert.Equal(t, tc.want, r.BoneHealth)
			assert.Equal(t, tc.want, r.Cardiovascular)
		})
	}
}

func TestEstimateMilestone(t *testing.T) {
	m := EstimateMilestone(now, intPtr(100), models.StagePreMenopause, nil)
	require.NotNil(t, m.DaysUntil)
	assert.Equal(t, 265, *m.DaysUntil)
	assert.Equal(t, models.NewDate(now).AddDays(265), *m.EstimatedDate)

	m = EstimateMilestone(now, intPtr(400), models.StageEarlyPerimenopause, intPtr(49))
	assert.Nil(t, m.DaysUntil)
	require.NotNil(t, m.EstimatedDate)
	assert.Equal(t, models.NewDate(now).AddDays(2*365), *m.EstimatedDate)

	m = EstimateMilestone(now, intPtr(400), models.StageLatePerimenopause, intPtr(55))
	require.NotNil(t, m.EstimatedDate)
	assert.Equal(t, models.NewDate(now), *m.EstimatedDate)

	m = EstimateMilestone(now, intPtr(400), models.StageMenopause, intPtr(55))
	assert.Nil(t, m.EstimatedDate)

	m = EstimateMilestone(now, intPtr(400), models.StageLatePerimenopause, nil)
	assert.Nil(t, m.EstimatedDate)

	m = EstimateMilestone(now, nil, models.StageLatePerimenopause, intPtr(48))
	assert.Nil(t, m.EstimatedDate)

	m = EstimateMilestone(now, intPtr(0), models.StageLatePerimenopause, intPtr(48))
	assert.Nil(t, m.EstimatedDate)
	assert.Nil(t, m.DaysUntil)

	m = EstimateMilestone(now, intPtr(1), models.StageLatePerimenopause, nil)
	require.NotNil(t, m.DaysUntil)
	assert.Equal(t, 364, *m.DaysUntil)
}

func TestTreatmentEffectiveness(t *testing.T) {
	assert.Nil(t, TreatmentEffectiveness(nil))
	assert.Nil(t, TreatmentEffectiveness([]models.Treatment{{Effectiveness: intPtr(0)}, {}}))

	got := TreatmentEffectiveness([]models.Treatment{
		{Effectiveness: intPtr(7)}, {Effectiveness: intPtr(8)}, {Effectiveness: intPtr(0)},
	})
	require.NotNil(t, got)
	assert.Equal(t, 7.5, *got)
}

func TestPerimenopauseMonths(t *testing.T) {
	assert.Nil(t, PerimenopauseMonths(models.StageLatePerimenopause, 12, 5))
	assert.Nil(t, PerimenopauseMonths(models.StageEarlyPerimenopause, 12, 10))
	assert.Equal(t, 12, *PerimenopauseMonths(models.StageMenopause, 12, 10))
	assert.Equal(t, 60, *PerimenopauseMonths(models.StagePostMenopause, 80, 10))
}

func TestBuildMenopauseReport_NoData(t *testing.T) {
	r := BuildMenopauseReport(MenopauseInput{Stage: models.StagePreMenopause, Now: now})
	assert.Nil(t, r.DaysSinceLastPeriod)
	assert.Equal(t, 28, r.AverageCycleLength)
	assert.Equal(t, 0.0, r.CycleVariability)
	assert.Nil(t, r.LongestGap)
	assert.Equal(t, 0, r.TotalSymptomLogs)
	assert.Empty(t, r.MostCommonSymptoms)
	assert.Equal(t, TrendStable, r.SymptomTrend)
	assert.Equal(t, TrendStable, r.HotFlashTrend)
	assert.Equal(t, 10.0, r.AvgSleepQuality)
	assert.Equal(t, 5.0, r.AvgMoodScore)
	assert.Empty(t, r.ActiveTreatments)
	assert.Nil(t, r.TreatmentEffectiveness)
	assert.Nil(t, r.EstimatedMenopauseDate)
	assert.Equal(t, RiskLow, r.BoneHealthRisk)
	assert.Equal(t, RiskLow, r.CardiovascularRisk)
}

func TestBuildMenopauseReport_Full(t *testing.T) {
	last := models.NewDate(now).AddDays(-40)
	periods := []models.PeriodLog{
		{StartDate: last},
		{StartDate: last.AddDays(-50)},
		{StartDate: last.AddDays(-80)},
		{StartDate: last.AddDays(-110)},
	}

	var symptoms []models.SymptomLog
	for i := 0; i < 10; i++ {
		hot := 2
		if i < 5 {
			hot = 8
		}
		symptoms = append(symptoms, models.SymptomLog{HotFlashes: hot, SleepIssues: 3, MoodChanges: 4})
	}

	ended := models.NewDate(now).AddDays(-1)
	treatments := []models.Treatment{
		{Model: models.Model{ID: 1}, TreatmentType: "HRT", TreatmentName: "Estradiol", Effectiveness: intPtr(6)},
		{Model: models.Model{ID: 2}, TreatmentType: "Supplement", TreatmentName: "Calcium", EndDate: &ended, Effectiveness: intPtr(2)},
	}

	r := BuildMenopauseReport(MenopauseInput{
		Age:        intPtr(61),
		Stage:      models.StagePostMenopause,
		PeriodLogs: periods,
		Symptoms:   symptoms,
		Treatments: treatments,
		Now:        now,
	})

	require.NotNil(t, r.DaysSinceLastPeriod)
	assert.Equal(t, 40, *r.DaysSinceLastPeriod)
	assert.Equal(t, 36, r.AverageCycleLength) // (50+30+30)/3 floored
	require.NotNil(t, r.LongestGap)
	assert.Equal(t, 50, *r.LongestGap)
	assert.Equal(t, 11.5, r.CycleVariability)

	assert.Equal(t, 10, r.TotalSymptomLogs)
	assert.Equal(t, 5.0, r.AvgHotFlashesPerDay)
	assert.Equal(t, TrendIncreasing, r.HotFlashTrend)
	assert.Equal(t, TrendWorsening, r.SymptomTrend)
	assert.Equal(t, 7.0, r.AvgSleepQuality)
	assert.Equal(t, 6.0, r.AvgMoodScore)

	require.Len(t, r.ActiveTreatments, 1)
	assert.Equal(t, "Estradiol", r.ActiveTreatments[0].Name)
	require.NotNil(t, r.TreatmentEffectiveness)
	assert.Equal(t, 6.0, *r.TreatmentEffectiveness)

	require.NotNil(t, r.DaysUntilMenopauseMilestone)
	assert.Equal(t, 325, *r.DaysUntilMenopauseMilestone)
	require.NotNil(t, r.PerimenopauseDurationMonths)
	assert.Equal(t, 4, *r.PerimenopauseDurationMonths)

	assert.Equal(t, RiskMedium, r.BoneHealthRisk)
	assert.Equal(t, RiskMedium, r.CardiovascularRisk)
}
