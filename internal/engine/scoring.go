// Package engine содержит правила одобрения, оценки, испытательного срока и
// распределения пакетов. Функции пакета не выполняют ввод-вывод.
package engine

import (
	"math"
	"strings"

	"contractors/models"
)

type ApprovalResult struct {
	Total     int                      `json:"total"`
	TierLevel models.Tier              `json:"tierLevel"`
	Decision  models.Decision          `json:"decision"`
	Breakdown models.ApprovalBreakdown `json:"breakdown"`
}

type ProjectRating struct {
	Total float64            `json:"total"`
	Parts models.RatingParts `json:"parts"`
}

type ReliabilityInput struct {
	PerformanceAvg float64
	ResponseRate   float64
	ComplianceOK   bool
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return math.Max(lo, math.Min(hi, v))
}

// weighted переводит процент в баллы категории с округлением.
func weighted(percent, weight float64) int {
	return int(clamp(math.Round(percent/100*weight), 0, weight))
}

func TierFromApprovalScore(score int) (models.Tier, models.Decision) {
	switch {
	case score >= 85:
		return models.Tier1, models.Approved
	case score >= 70:
		return models.Tier2, models.Approved
	case score >= 60:
		return models.Conditional, models.ConditionalDecision
	}
	return models.Reject, models.Rejected
}

func experiencePercent(years float64) float64 {
	switch {
	case years >= 10:
		return 100
	case years >= 7:
		return 85
	case years >= 4:
		return 70
	case years >= 2:
		return 55
	case years >= 1:
		return 40
	}
	return 20
}

// Порядок важен: первое совпадение подстроки выигрывает.
var capacityBuckets = []struct {
	marker  string
	percent float64
}{
	{"20+", 100},
	{"11", 85},
	{"6", 70},
	{"2", 55},
	{"Self", 45},
}

func capacityPercent(workforce string) float64 {
	for _, b := range capacityBuckets {
		if strings.Contains(workforce, b.marker) {
			return b.percent
		}
	}
	return 45
}

// ComputeApprovalScore считает балл одобрения по пяти категориям.
// Каждая категория округляется отдельно, итог равен сумме округлённых баллов.
func ComputeApprovalScore(app models.Application) ApprovalResult {
	years := clamp(app.YearsOfExperience, 0, 60)

	complianceRaw := 0.0
	if app.COIProvided {
		complianceRaw += 60
	}
	if app.W9Provided {
		complianceRaw += 25
	}
	if app.OSHAConfirmed {
		complianceRaw += 10
	}
	if app.LicenseVerified {
		complianceRaw += 5
	}

	professionalismRaw := 35.0
	if app.OSHAConfirmed {
		professionalismRaw = 70
	}
	if app.WorkAuthorized {
		professionalismRaw += 30
	}

	financialRaw := 30.0
	if app.W9Provided {
		financialRaw = 80
	}

	b := models.ApprovalBreakdown{
		ComplianceScore:      weighted(complianceRaw, 25),
		ExperienceScore:      weighted(experiencePercent(years), 25),
		CapacityScore:        weighted(capacityPercent(app.WorkforceSize), 20),
		ProfessionalismScore: weighted(professionalismRaw, 15),
		FinancialScore:       weighted(financialRaw, 15),
	}
	total := b.ComplianceScore + b.ExperienceScore + b.CapacityScore + b.ProfessionalismScore + b.FinancialScore
	tier, decision := TierFromApprovalScore(total)

	return ApprovalResult{
		Total:     total,
		TierLevel: tier,
		Decision:  decision,
		Breakdown: b,
	}
}

func ComputeProjectRating(in models.RatingParts) ProjectRating {
	parts := models.RatingParts{
		Quality:            clamp(in.Quality, 0, 30),
		Timeliness:         clamp(in.Timeliness, 0, 20),
		Communication:      clamp(in.Communication, 0, 15),
		Compliance:         clamp(in.Compliance, 0, 15),
		ClientSatisfaction: clamp(in.ClientSatisfaction, 0, 20),
	}
	return ProjectRating{
		Total: parts.Quality + parts.Timeliness + parts.Communication + parts.Compliance + parts.ClientSatisfaction,
		Parts: parts,
	}
}

// ComputeReliabilityIndex: 70% производительность, 20% отклик, 10% соответствие требованиям.
func ComputeReliabilityIndex(in ReliabilityInput) float64 {
	perf := clamp(in.PerformanceAvg, 0, 100)
	resp := clamp(in.ResponseRate, 0, 1)
	comp := 0.0
	if in.ComplianceOK {
		comp = 1
	}
	return perf*0.7 + resp*100*0.2 + comp*100*0.1
}

func PerformanceTierFromAverage(avg int) models.PerformanceTier {
	switch {
	case avg >= 90:
		return models.PriorityAllocation
	case avg >= 80:
		return models.StandardAllocation
	case avg >= 70:
		return models.LimitedAllocation
	}
	return models.FlagForReview
}
