package engine

import (
	"time"

	"contractors/models"
)

// Trigger: причина постановки на испытательный срок.
type Trigger string

const (
	TriggerLowScores       Trigger = "two_low_scores"
	TriggerComplianceLapse Trigger = "compliance_expired"
	TriggerSafetyViolation Trigger = "safety_violation"
	TriggerComplaint       Trigger = "verified_complaint"
	TriggerNoResponse      Trigger = "no_response_streak"
)

const (
	LowScoreThreshold   = 75
	NoResponseThreshold = 3
	ProbationPeriod     = 45 * 24 * time.Hour
)

// ProbationTriggers возвращает все сработавшие условия для подрядчика.
func ProbationTriggers(c models.Contractor, now time.Time) []Trigger {
	var triggers []Trigger

	scores := c.Performance.RecentProjectScores
	if n := len(scores); n >= 2 && scores[n-1] < LowScoreThreshold && scores[n-2] < LowScoreThreshold {
		triggers = append(triggers, TriggerLowScores)
	}
	if IsExpired(c.Compliance.InsuranceExpiryDate, now) || IsExpired(c.Compliance.LicenseExpiryDate, now) {
		triggers = append(triggers, TriggerComplianceLapse)
	}
	if c.Flags.SafetyViolations > 0 {
		triggers = append(triggers, TriggerSafetyViolation)
	}
	if c.Flags.VerifiedComplaints > 0 {
		triggers = append(triggers, TriggerComplaint)
	}
	if c.ResponseHistory.NoResponseStreak >= NoResponseThreshold {
		triggers = append(triggers, TriggerNoResponse)
	}
	return triggers
}

// EvaluateProbation возвращает подрядчика без изменений либо копию на испытательном сроке.
// Существующая запись об испытательном сроке не продлевается, снятие: только вручную.
func EvaluateProbation(c models.Contractor, now time.Time) models.Contractor {
	if len(ProbationTriggers(c, now)) == 0 {
		return c
	}

	c.Status = c.Status.AfterProbationTrigger()
	if c.Probation == nil {
		c.Probation = &models.Probation{
			StartDate: now.UTC(),
			EndDate:   now.Add(ProbationPeriod).UTC(),
			Active:    true,
		}
	}
	return c
}
