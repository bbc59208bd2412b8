package period

import (
	"errors"

	"github.com/sakhi-app/core/internal/models"
)

// analyticsWindow is how many recent logs the tracker summary looks at.
const analyticsWindow = 10

type CreateLogDTO struct {
	StartDate models.Date        `json:"start_date"`
	EndDate   *models.Date       `json:"end_date"`
	FlowLevel int                `json:"flow_level" binding:"required,min=1,max=3"`
	Symptoms  models.StringArray `json:"symptoms"`
	Notes     string             `json:"notes"`
}

type UpdateLogDTO struct {
	EndDate   *models.Date        `json:"end_date"`
	FlowLevel *int                `json:"flow_level" binding:"omitempty,min=1,max=3"`
	Symptoms  *models.StringArray `json:"symptoms"`
	Notes     *string             `json:"notes"`
}

type logResponse struct {
	models.PeriodLog
	FlowName     string `json:"flow_name"`
	DurationDays int    `json:"duration_days"`
}

var (
	errStartRequired  = errors.New("start_date is required")
	errEndBeforeStart = errors.New("end_date must be on or after start_date")
	errStartInFuture  = errors.New("start_date cannot be in the future")
	errLogNotFound    = errors.New("period log not found")
)

func toResponse(l models.PeriodLog) logResponse {
	return logResponse{PeriodLog: l, FlowName: models.FlowName(l.FlowLevel), DurationDays: l.DurationDays()}
}
