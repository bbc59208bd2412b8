package analytics

import (
	"math"
	"time"

	"github.com/sakhi-app/core/internal/models"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"

	milestoneDays        = 365
	typicalMenopauseAge  = 51
	highRiskAge          = 60
	irregularVariability = 7.0
	maxPerimenopauseMo   = 60
)

// Milestone is the estimated date of the 12-months-without-period mark.
type Milestone struct {
	EstimatedDate *models.Date
	DaysUntil     *int
}

// EstimateMilestone projects the menopause milestone. Within a year of the
// last period the date is the one-year anniversary. Otherwise, for
// perimenopausal users of known age, it is projected from age 51. A period
// that started today gives no estimate.
func EstimateMilestone(now time.Time, daysSinceLast *int, stage string, age *int) Milestone {
	var out Milestone
	if daysSinceLast == nil || *daysSinceLast == 0 {
		return out
	}

	today := models.NewDate(now)
	if *daysSinceLast < milestoneDays {
		days := milestoneDays - *daysSinceLast
		date := today.AddDays(days)
		out.EstimatedDate = &date
		out.DaysUntil = &days
		return out
	}

	if isPerimenopause(stage) && age != nil {
		years := typicalMenopauseAge - *age
		if years < 0 {
			years = 0
		}
		date := today.AddDays(years * milestoneDays)
		out.EstimatedDate = &date
	}
	return out
}

// RiskAssessment holds the bone and cardiovascular risk tiers.
type RiskAssessment struct {
	BoneHealth     string `json:"bone_health_risk"`
	Cardiovascular string `json:"cardiovascular_risk"`
}

// AssessRisk starts both tiers at low. Once menopausal they become medium,
// escalate to high from age 60, and an active HRT course steps high back
// down to medium. Unknown age stays low.
func AssessRisk(stage string, age *int, treatments []models.Treatment, now time.Time) RiskAssessment {
	risk := RiskAssessment{BoneHealth: RiskLow, Cardiovascular: RiskLow}
	if age == nil || !isMenopausal(stage) {
		return risk
	}

	tier := RiskMedium
	if *age >= highRiskAge {
		tier = RiskHigh
	}
	if tier == RiskHigh && hasActiveHRT(treatments, models.NewDate(now)) {
		tier = RiskMedium
	}
	risk.BoneHealth = tier
	risk.Cardiovascular = tier
	return risk
}

func hasActiveHRT(treatments []models.Treatment, today models.Date) bool {
	for _, t := range treatments {
		if t.IsHRT() && t.ActiveOn(today) {
			return true
		}
	}
	return false
}

// TreatmentEffectiveness is the mean of the non-zero effectiveness scores,
// nil when none were recorded.
func TreatmentEffectiveness(treatments []models.Treatment) *float64 {
	var sum, n int
	for _, t := range treatments {
		if t.Effectiveness != nil && *t.Effectiveness != 0 {
			sum += *t.Effectiveness
			n++
		}
	}
	if n == 0 {
		return nil
	}
	v := Round1(float64(sum) / float64(n))
	return &v
}

// PerimenopauseMonths approximates months of perimenopause from the number
// of logged periods, capped at five years. Only late stages with irregular
// cycles qualify.
func PerimenopauseMonths(stage string, periodLogs int, variability float64) *int {
	if periodLogs == 0 || variability <= irregularVariability {
		return nil
	}
	switch stage {
	case models.StageLatePerimenopause, models.StageMenopause, models.StagePostMenopause:
	default:
		return nil
	}
	months := periodLogs
	if months > maxPerimenopauseMo {
		months = maxPerimenopauseMo
	}
	return &months
}

// ActiveTreatment is the compact treatment view in the report.
type ActiveTreatment struct {
	ID            uint   `json:"id"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	Effectiveness *int   `json:"effectiveness"`
}

// MenopauseInput is everything the report needs. Period and symptom logs
// are ordered newest first.
type MenopauseInput struct {
	Age        *int
	Stage      string
	PeriodLogs []models.PeriodLog
	Symptoms   []models.SymptomLog
	Treatments []models.Treatment
	Now        time.Time
}

// MenopauseReport is the full menopause analytics payload.
type MenopauseReport struct {
	Age            *int   `json:"age"`
	MenopauseStage string `json:"menopause_stage"`

	DaysSinceLastPeriod *int    `json:"days_since_last_period"`
	CycleVariability    float64 `json:"cycle_variability"`
	AverageCycleLength  int     `json:"average_cycle_length"`
	LongestGap          *int    `json:"longest_gap"`

	TotalSymptomLogs    int           `json:"total_symptom_logs"`
	MostCommonSymptoms  []SymptomRank `json:"most_common_symptoms"`
	SymptomTrend        string        `json:"symptom_trend"`
	OverallSymptomScore float64       `json:"overall_symptom_score"`

	AvgHotFlashesPerDay float64 `json:"avg_hot_flashes_per_day"`
	HotFlashTrend       string  `json:"hot_flash_trend"`

	AvgSleepQuality float64 `json:"avg_sleep_quality"`
	AvgMoodScore    float64 `json:"avg_mood_score"`

	ActiveTreatments       []ActiveTreatment `json:"active_treatments"`
	TreatmentEffectiveness *float64          `json:"treatment_effectiveness"`

	EstimatedMenopauseDate      *models.Date `json:"estimated_menopause_date"`
	DaysUntilMenopauseMilestone *int         `json:"days_until_menopause_milestone"`
	PerimenopauseDurationMonths *int         `json:"perimenopause_duration_months"`

	BoneHealthRisk     string `json:"bone_health_risk"`
	CardiovascularRisk string `json:"cardiovascular_risk"`
}

// BuildMenopauseReport assembles every menopause metric from in.
func BuildMenopauseReport(in MenopauseInput) MenopauseReport {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := models.NewDate(now)

	report := MenopauseReport{
		Age:                in.Age,
		MenopauseStage:     in.Stage,
		AverageCycleLength: DefaultCycleLength,
		SymptomTrend:       TrendStable,
		HotFlashTrend:      TrendStable,
		AvgSleepQuality:    10,
		AvgMoodScore:       5,
		ActiveTreatments:   []ActiveTreatment{},
		MostCommonSymptoms: []SymptomRank{},
	}

	var variability float64
	if len(in.PeriodLogs) > 0 {
		days := today.DaysSince(in.PeriodLogs[0].StartDate)
		report.DaysSinceLastPeriod = &days

		lengths := CycleLengths(StartDates(in.PeriodLogs))
		if len(lengths) > 0 {
			report.AverageCycleLength = int(math.Floor(AverageCycleLength(lengths)))
			variability = Variability(lengths)
			longest := maxInt(lengths)
			report.LongestGap = &longest
		}
	}
	report.CycleVariability = Round1(variability)

	report.TotalSymptomLogs = len(in.Symptoms)
	if len(in.Symptoms) > 0 {
		agg := AggregateSymptoms(in.Symptoms)
		report.MostCommonSymptoms = agg.MostCommon
		report.OverallSymptomScore = Round1(agg.OverallScore)
		report.AvgHotFlashesPerDay = Round1(AverageHotFlashes(in.Symptoms))
		report.HotFlashTrend = DetectTrend(HotFlashCounts(in.Symptoms), TrendIncreasing, TrendDecreasing)
		report.SymptomTrend = DetectTrend(CompositeSeverities(in.Symptoms), TrendWorsening, TrendImproving)
		report.AvgSleepQuality = Round1(SleepQuality(in.Symptoms))
		report.AvgMoodScore = Round1(MoodScore(in.Symptoms))
	}

	var active []models.Treatment
	for _, t := range in.Treatments {
		if !t.ActiveOn(today) {
			continue
		}
		active = append(active, t)
		report.ActiveTreatments = append(report.ActiveTreatments, ActiveTreatment{
			ID:            t.ID,
			Type:          t.TreatmentType,
			Name:          t.TreatmentName,
			Effectiveness: t.Effectiveness,
		})
	}
	report.TreatmentEffectiveness = TreatmentEffectiveness(active)

	milestone := EstimateMilestone(now, report.DaysSinceLastPeriod, in.Stage, in.Age)
	report.EstimatedMenopauseDate = milestone.EstimatedDate
	report.DaysUntilMenopauseMilestone = milestone.DaysUntil
	report.PerimenopauseDurationMonths = PerimenopauseMonths(in.Stage, len(in.PeriodLogs), variability)

	risk := AssessRisk(in.Stage, in.Age, active, now)
	report.BoneHealthRisk = risk.BoneHealth
	report.CardiovascularRisk = risk.Cardiovascular
	return report
}

func isPerimenopause(stage string) bool {
	return stage == models.StageEarlyPerimenopause || stage == models.StageLatePerimenopause
}

func isMenopausal(stage string) bool {
	return stage == models.StageMenopause || stage == models.StagePostMenopause
}

func maxInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
