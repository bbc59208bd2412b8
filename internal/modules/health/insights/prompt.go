package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sakhi-app/core/internal/analytics"
	"github.com/sakhi-app/core/internal/models"
)

const systemPrompt = "You are a women's health data analyst specializing in menstrual health patterns. " +
	"Be supportive and informative, not alarming. Never diagnose medical conditions."

func buildPrompt(logs []models.PeriodLog, stats analytics.CycleStats) string {
	if len(logs) > promptWindow {
		logs = logs[:promptWindow]
	}
	formatted := make([]promptLog, len(logs))
	for i, l := range logs {
		end := "ongoing"
		if l.EndDate != nil && !l.EndDate.IsZero() {
			end = l.EndDate.String()
		}
		symptoms := "none"
		if len(l.Symptoms) > 0 {
			symptoms = l.Symptoms.Joined()
		}
		formatted[i] = promptLog{
			Cycle:     i + 1,
			StartDate: l.StartDate.String(),
			EndDate:   end,
			FlowLevel: models.FlowName(l.FlowLevel),
			Symptoms:  symptoms,
		}
	}
	history, _ := json.MarshalIndent(formatted, "", "  ")

	common := "none reported"
	if len(stats.CommonSymptoms) > 0 {
		common = strings.Join(stats.CommonSymptoms, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following menstrual cycle data and provide insights.\n\n")
	fmt.Fprintf(&b, "User's period history (last %d cycles):\n%s\n\n", len(formatted), history)
	fmt.Fprintf(&b, "Calculated statistics:\n")
	fmt.Fprintf(&b, "- Average cycle length: %.1f days\n", stats.AvgCycleLength)
	fmt.Fprintf(&b, "- Cycle regularity: %s\n", stats.Regularity)
	fmt.Fprintf(&b, "- Average period duration: %.1f days\n", stats.AvgPeriodDuration)
	fmt.Fprintf(&b, "- Most common symptoms: %s\n\n", common)
	b.WriteString(`Reply with JSON only, using this structure:
{
  "cycle_regularity": {"status": "regular|irregular|variable", "explanation": "..."},
  "next_period_prediction": {"estimated_date": "YYYY-MM-DD", "confidence": "high|medium|low", "reasoning": "..."},
  "insights": ["..."],
  "recommendations": ["..."],
  "health_flags": ["concerning patterns if any, otherwise empty"],
  "lifestyle_tips": ["..."]
}

Guidelines:
- If patterns suggest medical consultation, mention it gently
- Keep insights practical and actionable
- Focus on patterns, not individual cycles`)
	return b.String()
}
