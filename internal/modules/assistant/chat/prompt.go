package chat

import (
	"fmt"
	"strings"

	"github.com/sakhi-app/core/internal/analytics"
	"github.com/sakhi-app/core/internal/models"
)

const systemPrompt = `You are Sakhi, a compassionate and knowledgeable women's health companion. You specialize in:
- Menstrual health and cycle tracking
- PCOS (Polycystic Ovary Syndrome)
- Period pain management
- Hormonal health and menopause
- General women's wellness

Your personality:
- Warm, supportive and empathetic
- Culturally sensitive to the Indian context
- Evidence-based but accessible
- Never judgmental

Guidelines:
- NEVER diagnose medical conditions
- Always recommend consulting a doctor for serious concerns
- Provide general health information and wellness tips
- Normalize conversations about periods
- Respect privacy and confidentiality
- If the user has logged health data, reference it to personalize guidance`

var languageNames = map[string]string{
	"hi": "Hindi",
	"ta": "Tamil",
	"kn": "Kannada",
}

// buildUserContext describes the member's recent cycles and community
// activity. logs are newest first. It returns "" when there is nothing to say.
func buildUserContext(logs []models.PeriodLog, postCount int64) string {
	var parts []string

	if len(logs) > 0 {
		parts = append(parts, "User's Recent Period Data:")
		for i, l := range logs {
			if i == describedCycles {
				break
			}
			duration := "ongoing"
			if d := l.DurationDays(); d > 0 {
				duration = fmt.Sprintf("%d days", d)
			}
			symptoms := "none reported"
			if len(l.Symptoms) > 0 {
				symptoms = strings.Join(l.Symptoms, ", ")
			}
			parts = append(parts, fmt.Sprintf("- Cycle %d: Started %s, Duration: %s, Flow: %s, Symptoms: %s",
				i+1, l.StartDate.String(), duration, models.FlowName(l.FlowLevel), symptoms))
		}
	}

	if lengths := analytics.CycleLengths(analytics.StartDates(logs)); len(lengths) > 0 {
		parts = append(parts,
			fmt.Sprintf("\nAverage Cycle Length: %.1f days", analytics.AverageCycleLength(lengths)),
			"Cycle Regularity: "+analytics.DeviationRegularity(lengths),
		)
	}

	if postCount > 0 {
		parts = append(parts, fmt.Sprintf("\nUser is active in community (made %d posts)", postCount))
	}
	return strings.Join(parts, "\n")
}

func buildPrompt(question, userContext, lang string, anonymous bool) string {
	var parts []string
	if userContext != "" && !anonymous {
		parts = append(parts,
			"=== USER'S HEALTH DATA (for personalized response) ===",
			userContext,
			"=== END OF USER DATA ===\n",
			"Please use this data to provide personalized, relevant guidance. Reference specific patterns you see if appropriate.",
			"",
		)
	}
	if name, ok := languageNames[lang]; ok {
		parts = append(parts, fmt.Sprintf("Please respond in %s language.", name), "")
	}
	parts = append(parts, "User's Question: "+question)
	if anonymous {
		parts = append(parts, "\n(Note: User is anonymous, no personal health data available. Provide general guidance only.)")
	}
	return strings.Join(parts, "\n")
}
