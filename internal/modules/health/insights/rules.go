package insights

import (
	"fmt"
	"math"
	"strings"

	"github.com/sakhi-app/core/internal/analytics"
	"github.com/sakhi-app/core/internal/models"
)

func notEnoughData() Report {
	return Report{
		Insights:        []string{"Not enough data for analysis. Track at least 2 cycles for AI insights."},
		Recommendations: []string{"Continue logging your periods to get personalized insights"},
		HealthFlags:     []string{},
		LifestyleTips:   []string{},
	}
}

// ruleBased derives insights without a model.
func ruleBased(stats analytics.CycleStats, logs []models.PeriodLog) Report {
	report := Report{
		Insights:        []string{},
		Recommendations: []string{},
		HealthFlags:     []string{},
		LifestyleTips: []string{
			"Stay hydrated throughout your cycle",
			"Track your symptoms to identify patterns",
		},
		CycleStats: &stats,
	}

	switch stats.Regularity {
	case analytics.RegularityRegular:
		report.Insights = append(report.Insights,
			fmt.Sprintf("Your cycles are regular with an average length of %.1f days.", stats.AvgCycleLength))
	case analytics.RegularitySomewhatIrregular:
		report.Insights = append(report.Insights,
			fmt.Sprintf("Your cycles vary a little from month to month. Average length is %.1f days.", stats.AvgCycleLength))
	case analytics.RegularityIrregular:
		report.Insights = append(report.Insights,
			fmt.Sprintf("Your cycles show irregularity. Average length is %.1f days with high variation.", stats.AvgCycleLength))
		report.HealthFlags = append(report.HealthFlags,
			"Irregular cycles - consider consulting a healthcare provider if this persists")
	}

	if stats.AvgPeriodDuration > 0 {
		if stats.AvgPeriodDuration <= normalMaxDays {
			report.Insights = append(report.Insights,
				fmt.Sprintf("Your period duration averages %.1f days, which is within normal range.", stats.AvgPeriodDuration))
		} else {
			report.Insights = append(report.Insights,
				fmt.Sprintf("Your periods last %.1f days on average, which is longer than typical.", stats.AvgPeriodDuration))
			report.HealthFlags = append(report.HealthFlags, "Extended period duration - may want to discuss with doctor")
		}
	}

	if len(stats.CommonSymptoms) > 0 {
		report.Insights = append(report.Insights,
			"Common symptoms you experience: "+strings.Join(stats.CommonSymptoms, ", "))
		report.Recommendations = append(report.Recommendations,
			"Consider lifestyle adjustments to manage symptoms (exercise, diet, stress management)")
	}
	report.Recommendations = append(report.Recommendations,
		"Continue tracking your cycles for better insights",
		"Maintain a healthy lifestyle with regular exercise and balanced nutrition",
	)

	if len(logs) > 0 && stats.AvgCycleLength > 0 {
		confidence := "low"
		if stats.Regularity == analytics.RegularityRegular {
			confidence = "medium"
		}
		next := logs[0].StartDate.AddDays(int(math.Floor(stats.AvgCycleLength)))
		report.NextPeriodPrediction = &Prediction{
			EstimatedDate: next.String(),
			Confidence:    confidence,
			Reasoning:     fmt.Sprintf("Based on your average cycle length of %.1f days", stats.AvgCycleLength),
		}
	}
	return report
}
