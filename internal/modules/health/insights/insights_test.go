package insights

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakhi-app/core/internal/analytics"
	"github.com/sakhi-app/core/internal/middleware"
	"github.com/sakhi-app/core/internal/models"
	"github.com/sakhi-app/core/internal/pkg/jwt"
	"github.com/sakhi-app/core/internal/pkg/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePeriods struct{ logs []models.PeriodLog }

func (f fakePeriods) Recent(_ uint, n int) ([]models.PeriodLog, error) {
	if n > 0 && n < len(f.logs) {
		return f.logs[:n], nil
	}
	return f.logs, nil
}

type fakeCompleter struct {
	enabled bool
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Enabled() bool { return f.enabled }
func (f *fakeCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func date(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *models.Date {
	d := date(s)
	return &d
}

func regularLogs() []models.PeriodLog {
	return []models.PeriodLog{
		{StartDate: date("2025-03-26"), EndDate: datePtr("2025-03-30"), FlowLevel: 2, Symptoms: models.StringArray{"cramps", "fatigue"}},
		{StartDate: date("2025-02-26"), EndDate: datePtr("2025-03-02"), FlowLevel: 3, Symptoms: models.StringArray{"cramps"}},
		{StartDate: date("2025-01-29"), EndDate: datePtr("2025-02-02"), FlowLevel: 2},
	}
}

func TestPeriodInsights_NotEnoughData(t *testing.T) {
	svc := NewService(nil, fakePeriods{logs: regularLogs()[:1]}, nil, nil)
	report, err := svc.PeriodInsights(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, report.AIPowered)
	assert.Nil(t, report.CycleStats)
	assert.Nil(t, report.NextPeriodPrediction)
	assert.Contains(t, report.Insights[0], "Not enough data")
}

func TestPeriodInsights_RuleBased(t *testing.T) {
	svc := NewService(nil, fakePeriods{logs: regularLogs()}, &fakeCompleter{}, nil)
	report, err := svc.PeriodInsights(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, report.AIPowered)
	require.NotNil(t, report.CycleStats)
	assert.Equal(t, 28.0, report.CycleStats.AvgCycleLength)
	assert.Equal(t, 5.0, report.CycleStats.AvgPeriodDuration)
	assert.Equal(t, analytics.RegularityRegular, report.CycleStats.Regularity)
	assert.Equal(t, []string{"cramps", "fatigue"}, report.CycleStats.CommonSymptoms)
	assert.Contains(t, report.Insights[0], "regular with an average length of 28.0 days")
	assert.Empty(t, report.HealthFlags)

	require.NotNil(t, report.NextPeriodPrediction)
	assert.Equal(t, "2025-04-23", report.NextPeriodPrediction.EstimatedDate)
	assert.Equal(t, "medium", report.NextPeriodPrediction.Confidence)
}

func TestPeriodInsights_RuleBasedFlags(t *testing.T) {
	logs := []models.PeriodLog{
		{StartDate: date("2025-04-20"), EndDate: datePtr("2025-04-29")},
		{StartDate: date("2025-03-01"), EndDate: datePtr("2025-03-10")},
		{StartDate: date("2025-02-10")},
	}
	svc := NewService(nil, fakePeriods{logs: logs}, nil, nil)
	report, err := svc.PeriodInsights(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, analytics.RegularityIrregular, report.CycleStats.Regularity)
	assert.Len(t, report.HealthFlags, 2)
	assert.Equal(t, "low", report.NextPeriodPrediction.Confidence)
}

func TestPeriodInsights_AI(t *testing.T) {
	completer := &fakeCompleter{enabled: true, reply: "Sure!\n```json\n" + `{
		"cycle_regularity": {"status": "regular", "explanation": "Consistent 28 day cycles."},
		"next_period_prediction": {"estimated_date": "2025-04-23", "confidence": "high", "reasoning": "Stable history."},
		"insights": ["Your cycle is steady."],
		"recommendations": ["Keep logging."]
	}` + "\n```"}
	svc := NewService(nil, fakePeriods{logs: regularLogs()}, completer, nil)

	report, err := svc.PeriodInsights(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, report.AIPowered)
	assert.Equal(t, []string{"Your cycle is steady."}, report.Insights)
	require.NotNil(t, report.CycleRegularity)
	assert.Equal(t, "regular", report.CycleRegularity.Status)
	assert.Equal(t, "high", report.NextPeriodPrediction.Confidence)
	assert.NotNil(t, report.HealthFlags)
	require.NotNil(t, report.CycleStats)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], `"start_date": "2025-03-26"`)
	assert.Contains(t, completer.prompts[0], "Most common symptoms: cramps, fatigue")
}

func TestPeriodInsights_AIFallbacks(t *testing.T) {
	for name, c := range map[string]*fakeCompleter{
		"error":       {enabled: true, err: errors.New("timeout")},
		"not json":    {enabled: true, reply: "I cannot help with that."},
		"no insights": {enabled: true, reply: `{"insights": []}`},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewService(nil, fakePeriods{logs: regularLogs()}, c, nil)
			report, err := svc.PeriodInsights(context.Background(), 1)
			require.NoError(t, err)
			assert.False(t, report.AIPowered)
			assert.NotEmpty(t, report.Insights)
			assert.NotNil(t, report.NextPeriodPrediction)
		})
	}
}

func TestSummaryAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testdb.New(t)
	for _, l := range regularLogs() {
		l.UserID = 3
		require.NoError(t, db.Create(&l).Error)
	}
	require.NoError(t, db.Create(&models.SymptomLog{UserID: 3, LogDate: models.Today(), HotFlashes: 2}).Error)
	require.NoError(t, db.Create(&models.Treatment{UserID: 3, TreatmentType: "HRT", TreatmentName: "Gel", StartDate: date("2024-01-01")}).Error)
	require.NoError(t, db.Create(&models.Treatment{UserID: 3, TreatmentType: "Supplement", TreatmentName: "Iron", StartDate: date("2024-01-01"), EndDate: datePtr("2024-02-01")}).Error)

	svc := NewService(db, fakePeriods{logs: regularLogs()}, nil, nil)
	sum, err := svc.Summary(3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, sum.TotalCyclesTracked)
	assert.EqualValues(t, 1, sum.SymptomLogs)
	assert.EqualValues(t, 1, sum.ActiveTreatments)
	require.NotNil(t, sum.LastPeriodDate)
	assert.Equal(t, "2025-03-26", *sum.LastPeriodDate)
	assert.True(t, sum.TrackingActive)

	signer := jwt.NewSigner("s", time.Hour)
	token, err := signer.Sign(3)
	require.NoError(t, err)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), middleware.Auth(signer))

	for _, path := range []string{"/api/v1/analytics/period", "/api/v1/analytics/health-summary"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
